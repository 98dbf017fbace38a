package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	repository "github.com/NicolasThaddeusL/cccup-ai/internal/adapters/repository"
	"github.com/NicolasThaddeusL/cccup-ai/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const artifactV1 = `
meta:
  schema_version: 1
info:
  creator:
    name: Nicolas TL
    id: "2415674"
competitions:
  tenis_meja:
    name: Tenis Meja
    contacts:
      sma:
        name: Andre
        phone: "+62 811-1111-111"
`

const artifactV2 = `
meta:
  schema_version: 2
competitions:
  basket:
    name: Basket
    contacts:
      sma:
        name: Caca
        phone: "+62 833-3333-333"
`

func writeArtifact(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

func TestBundleStore(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	ctx := context.Background()

	Convey("Given a valid artifact on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "data.bundle.yaml")
		writeArtifact(t, path, artifactV1)

		store := repository.NewBundleStore(path)
		So(store.Load(ctx), ShouldBeNil)

		Convey("Then the snapshot exposes the loaded data", func() {
			So(store.Loaded(ctx), ShouldBeTrue)
			So(store.SchemaVersion(ctx), ShouldEqual, 1)
			So(store.Identity(ctx), ShouldEqual, "Nicolas TL (2415674)")
			So(store.Keys(ctx), ShouldResemble, []string{"tenis meja"})
		})

		Convey("Then indexed contacts resolve by normalized key", func() {
			c, ok := store.Contact(ctx, "tenis meja")
			So(ok, ShouldBeTrue)
			So(c.SMA, ShouldEqual, "Andre +62 811-1111-111")

			_, ok = store.Contact(ctx, "basket")
			So(ok, ShouldBeFalse)
		})

		Convey("When the artifact changes and the store reloads", func() {
			writeArtifact(t, path, `
meta:
  schema_version: 1
competitions:
  basket:
    name: Basket
    contacts:
      smp:
        name: Dodi
        phone: "+62 844-4444-444"
`)
			So(store.Load(ctx), ShouldBeNil)

			Convey("Then the index reflects the new artifact without restart", func() {
				So(store.Keys(ctx), ShouldResemble, []string{"basket"})
				_, ok := store.Contact(ctx, "tenis meja")
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a missing artifact", t, func() {
		store := repository.NewBundleStore(filepath.Join(t.TempDir(), "absent.yaml"))

		Convey("Then loading succeeds with an empty snapshot", func() {
			So(store.Load(ctx), ShouldBeNil)
			So(store.Loaded(ctx), ShouldBeFalse)
			So(store.Keys(ctx), ShouldBeEmpty)
			So(store.Identity(ctx), ShouldEqual, "Nicolas TL (2415674)")
		})
	})

	Convey("Given an artifact with an unsupported schema version", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "data.bundle.yaml")
		writeArtifact(t, path, artifactV2)

		store := repository.NewBundleStore(path)
		err := store.Load(ctx)

		Convey("Then the load fails and the store serves empty", func() {
			So(err, ShouldWrap, repository.ErrSchemaVersion)
			So(store.Loaded(ctx), ShouldBeFalse)
			So(store.Keys(ctx), ShouldBeEmpty)
			So(store.SchemaVersion(ctx), ShouldEqual, 0)
		})
	})

	Convey("Given an unparseable artifact", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "data.bundle.yaml")
		writeArtifact(t, path, "meta: [unclosed\n")

		store := repository.NewBundleStore(path)
		err := store.Load(ctx)

		Convey("Then the decode failure is surfaced, not a crash", func() {
			So(err, ShouldWrap, repository.ErrDecodeBundle)
			So(store.Loaded(ctx), ShouldBeFalse)
		})
	})
}
