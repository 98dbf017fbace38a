package bundler_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/NicolasThaddeusL/cccup-ai/internal/bundler"
	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/bundle"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFragment(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fragment: %v", err)
	}
	return path
}

func finalizeToBundle(t *testing.T, m *bundler.Merger) *bundle.Bundle {
	t.Helper()
	doc, err := m.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := bundle.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return b
}

func TestMergerSections(t *testing.T) {
	Convey("Given fragments with disjoint section keys", t, func() {
		dir := t.TempDir()
		fragA := writeFragment(t, dir, "a.yaml", "faq:\n  overview:\n    description: Tentang acara\n")
		fragB := writeFragment(t, dir, "b.yaml", "faq:\n  pendaftaran:\n    method: Online\n")

		Convey("When merged in either order", func() {
			m1 := bundler.NewMerger()
			So(m1.AddFile(fragA, true), ShouldBeNil)
			So(m1.AddFile(fragB, true), ShouldBeNil)

			m2 := bundler.NewMerger()
			So(m2.AddFile(fragB, true), ShouldBeNil)
			So(m2.AddFile(fragA, true), ShouldBeNil)

			b1 := finalizeToBundle(t, m1)
			b2 := finalizeToBundle(t, m2)

			Convey("Then the merged section contents are identical", func() {
				So(b1.FAQ.Overview.Description, ShouldEqual, b2.FAQ.Overview.Description)
				So(b1.FAQ.Pendaftaran.Method, ShouldEqual, b2.FAQ.Pendaftaran.Method)
				So(m1.Diagnostics(), ShouldBeEmpty)
				So(m2.Diagnostics(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given two fragments defining the same key", t, func() {
		dir := t.TempDir()
		first := writeFragment(t, dir, "first.yaml", "competitions:\n  basket:\n    name: Basket Lama\n")
		second := writeFragment(t, dir, "second.yaml", "competitions:\n  basket:\n    name: Basket Baru\n")

		m := bundler.NewMerger()
		So(m.AddFile(first, true), ShouldBeNil)
		So(m.AddFile(second, true), ShouldBeNil)
		b := finalizeToBundle(t, m)

		Convey("Then the later fragment wins", func() {
			So(b.Competitions.Entries["basket"].Name, ShouldEqual, "Basket Baru")
		})

		Convey("Then exactly one duplicate-key diagnostic is produced", func() {
			So(m.Diagnostics(), ShouldHaveLength, 1)
			So(m.Diagnostics()[0], ShouldContainSubstring, "Duplicate key in 'competitions': basket")
		})
	})

	Convey("Given a fragment whose section is not a mapping", t, func() {
		dir := t.TempDir()
		frag := writeFragment(t, dir, "bad.yaml", "schedule:\n  - not\n  - a\n  - mapping\n")

		m := bundler.NewMerger()
		So(m.AddFile(frag, true), ShouldBeNil)

		Convey("Then it is skipped with a diagnostic", func() {
			So(m.Diagnostics(), ShouldHaveLength, 1)
			So(m.Diagnostics()[0], ShouldContainSubstring, "Section 'schedule' is not a mapping")
		})
	})

	Convey("Given merge order with inserted keys", t, func() {
		dir := t.TempDir()
		frag1 := writeFragment(t, dir, "c1.yaml", "competitions:\n  tenis_meja:\n    name: Tenis Meja\n")
		frag2 := writeFragment(t, dir, "c2.yaml", "competitions:\n  basket:\n    name: Basket\n")

		m := bundler.NewMerger()
		So(m.AddFile(frag1, true), ShouldBeNil)
		So(m.AddFile(frag2, true), ShouldBeNil)
		b := finalizeToBundle(t, m)

		Convey("Then the serialized section preserves insertion order", func() {
			So(b.Competitions.Keys, ShouldResemble, []string{"tenis_meja", "basket"})
		})
	})
}

func TestMergerSources(t *testing.T) {
	Convey("Given a missing required source", t, func() {
		m := bundler.NewMerger()
		err := m.AddFile("nope/missing.yaml", true)

		Convey("Then the build aborts", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, bundler.ErrMissingSource)
		})
	})

	Convey("Given a missing optional source", t, func() {
		m := bundler.NewMerger()
		err := m.AddFile("nope/missing.yaml", false)

		Convey("Then the build continues with a diagnostic", func() {
			So(err, ShouldBeNil)
			So(m.Diagnostics(), ShouldHaveLength, 1)
			So(m.Diagnostics()[0], ShouldContainSubstring, "Optional source missing")
		})
	})

	Convey("Given malformed YAML", t, func() {
		dir := t.TempDir()
		frag := writeFragment(t, dir, "broken.yaml", "faq: [unclosed\n")

		m := bundler.NewMerger()
		err := m.AddFile(frag, true)

		Convey("Then the parse error is fatal", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, bundler.ErrParseSource)
		})
	})

	Convey("Given only a missing optional source", t, func() {
		m := bundler.NewMerger()
		So(m.AddFile("nope/missing.yaml", false), ShouldBeNil)
		b := finalizeToBundle(t, m)

		Convey("Then a minimal bundle is still produced", func() {
			So(b.Meta.SchemaVersion, ShouldEqual, bundle.SchemaVersion)
			So(b.Meta.Sources, ShouldBeEmpty)
			So(b.Info.Creator, ShouldNotBeNil)
			So(b.Info.Creator.Name, ShouldEqual, bundle.CreatorName)
			So(b.Competitions.Keys, ShouldBeEmpty)
		})
	})
}

func TestIdentityGuard(t *testing.T) {
	Convey("Given a fragment overriding the creator name", t, func() {
		dir := t.TempDir()
		frag := writeFragment(t, dir, "rogue.yaml", "info:\n  creator:\n    name: Mallory\n")

		m := bundler.NewMerger()
		So(m.AddFile(frag, true), ShouldBeNil)
		_, err := m.Finalize()

		Convey("Then the build aborts naming the file and value", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, bundler.ErrIdentity)
			So(err.Error(), ShouldContainSubstring, "rogue.yaml")
			So(err.Error(), ShouldContainSubstring, "Mallory")
		})
	})

	Convey("Given a fragment overriding the creator id", t, func() {
		dir := t.TempDir()
		frag := writeFragment(t, dir, "rogue.yaml", "info:\n  creator:\n    id: 999\n")

		m := bundler.NewMerger()
		So(m.AddFile(frag, true), ShouldBeNil)
		_, err := m.Finalize()

		So(err, ShouldWrap, bundler.ErrIdentity)
	})

	Convey("Given fragments supplying only a description", t, func() {
		dir := t.TempDir()
		frag := writeFragment(t, dir, "desc.yaml", "info:\n  creator:\n    description: Pembuat chatbot\n")

		m := bundler.NewMerger()
		So(m.AddFile(frag, true), ShouldBeNil)
		b := finalizeToBundle(t, m)

		Convey("Then the constants are locked and the description kept", func() {
			So(b.Info.Creator.Name, ShouldEqual, bundle.CreatorName)
			So(string(b.Info.Creator.ID), ShouldEqual, bundle.CreatorID)
			So(b.Info.Creator.Description, ShouldEqual, "Pembuat chatbot")
		})
	})

	Convey("Given no info section at all", t, func() {
		dir := t.TempDir()
		frag := writeFragment(t, dir, "plain.yaml", "faq:\n  overview:\n    description: Halo\n")

		m := bundler.NewMerger()
		So(m.AddFile(frag, true), ShouldBeNil)
		b := finalizeToBundle(t, m)

		Convey("Then the creator constants are forced in", func() {
			So(b.Info.Creator, ShouldNotBeNil)
			So(b.Info.Creator.Name, ShouldEqual, bundle.CreatorName)
			So(string(b.Info.Creator.ID), ShouldEqual, bundle.CreatorID)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a bundle with structural issues", t, func() {
		dir := t.TempDir()
		frag := writeFragment(t, dir, "data.yaml", strings.Join([]string{
			"contacts:",
			"  phone:",
			"    number_e164: 0811962842",
			"schedule:",
			"  opening:",
			"    date: 2025-09-01",
			"  closing:",
			"    date: \"2025-09-07\"",
		}, "\n")+"\n")

		m := bundler.NewMerger()
		So(m.AddFile(frag, true), ShouldBeNil)
		doc, err := m.Finalize()
		So(err, ShouldBeNil)

		problems := bundler.Validate(doc)

		Convey("Then the phone format problem is reported", func() {
			So(problems, ShouldContain, "contacts.phone.number_e164 must start with '+' (E.164 format)")
		})

		Convey("Then only the non-string date is reported", func() {
			So(problems, ShouldContain, "schedule.opening.date must be string YYYY-MM-DD")
			So(problems, ShouldNotContain, "schedule.closing.date must be string YYYY-MM-DD")
		})
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a full build over several fragments", t, func() {
		dir := t.TempDir()
		base := writeFragment(t, dir, "base.yaml", strings.Join([]string{
			"meta:",
			"  author: panitia",
			"info:",
			"  creator:",
			"    name: Nicolas TL",
			"    id: \"2415674\"",
			"competitions:",
			"  tenis_meja:",
			"    name: Tenis Meja",
			"    contacts:",
			"      sma:",
			"        name: Andre",
			"        phone: \"+62 811-1111-111\"",
		}, "\n")+"\n")
		extra := writeFragment(t, dir, "extra.yaml", strings.Join([]string{
			"schedule:",
			"  opening:",
			"    name: Opening",
			"    date: \"2025-09-01\"",
		}, "\n")+"\n")

		m := bundler.NewMerger()
		So(m.AddFile(base, true), ShouldBeNil)
		So(m.AddFile(extra, true), ShouldBeNil)
		doc, err := m.Finalize()
		So(err, ShouldBeNil)

		outPath := filepath.Join(dir, "data.bundle.yaml")
		jsonPath := filepath.Join(dir, "data.bundle.json")
		So(bundler.WriteArtifacts(doc, outPath, jsonPath), ShouldBeNil)

		Convey("Then the primary artifact re-parses to the same structure", func() {
			data, err := os.ReadFile(outPath)
			So(err, ShouldBeNil)

			b, err := bundle.Decode(data)
			So(err, ShouldBeNil)
			So(b.Meta.SchemaVersion, ShouldEqual, bundle.SchemaVersion)
			So(b.Meta.Sources, ShouldHaveLength, 2)
			So(b.Meta.Sources[0].Path, ShouldEqual, base)
			So(b.Competitions.Keys, ShouldResemble, []string{"tenis_meja"})
			So(b.Competitions.Entries["tenis_meja"].Contacts.SMA.Phone, ShouldEqual, "+62 811-1111-111")
			So(string(b.Schedule.Entries["opening"].Date), ShouldEqual, "2025-09-01")
		})

		Convey("Then the per-file meta blocks are carried as provenance", func() {
			data, err := os.ReadFile(outPath)
			So(err, ShouldBeNil)
			b, err := bundle.Decode(data)
			So(err, ShouldBeNil)
			So(b.Meta.Files, ShouldHaveLength, 1)
			So(b.Meta.Files[0], ShouldContainKey, base)
		})

		Convey("Then the secondary artifact exists and is valid JSON", func() {
			data, err := os.ReadFile(jsonPath)
			So(err, ShouldBeNil)
			So(string(data), ShouldStartWith, "{")
			So(string(data), ShouldContainSubstring, "\"tenis_meja\"")
		})
	})
}
