package answer_test

import (
	"strings"
	"testing"

	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/answer"
	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/bundle"
	. "github.com/smartystreets/goconvey/convey"
)

var org = answer.Organizer{Site: "cccup.id", Support: "+62 811-9628-426 (Jonas)"}

func TestContact(t *testing.T) {
	Convey("Given a contact card with both levels", t, func() {
		out := answer.Contact(bundle.SportContact{
			Name: "Tenis Meja",
			SMA:  "Andre +62 811-1111-111",
			SMP:  "Budi +62 822-2222-222",
		}, org)

		Convey("Then lines appear in fixed order", func() {
			lines := strings.Split(out, "\n")
			So(lines[0], ShouldContainSubstring, "**Tenis Meja**")
			So(lines[1], ShouldStartWith, "- **SMA**: Andre")
			So(lines[2], ShouldStartWith, "- **SMP**: Budi")
			So(out, ShouldContainSubstring, "**cccup.id**")
		})
	})

	Convey("Given a contact card with only an SMA contact", t, func() {
		out := answer.Contact(bundle.SportContact{
			Name: "Basket",
			SMA:  "Caca +62 833-3333-333",
		}, org)

		Convey("Then the SMP line is omitted entirely", func() {
			So(out, ShouldNotContainSubstring, "SMP")
		})

		Convey("Then exactly one header and one closing line remain", func() {
			So(strings.Count(out, "berikut kontak resmi"), ShouldEqual, 1)
			So(strings.Count(out, "Jika data tidak terbarui"), ShouldEqual, 1)
		})
	})
}

func TestContextBlock(t *testing.T) {
	const doc = `
meta:
  schema_version: 1
info:
  creator:
    name: Nicolas TL
    id: "2415674"
faq:
  overview:
    description: Kompetisi antar sekolah tahunan.
  pendaftaran:
    method: Online via situs resmi
    cost: Gratis
    deadline: "2025-08-20"
    contacts:
      smp:
        name: Budi
        phone: "+62 822-2222-222"
competitions:
  tenis_meja:
    name: Tenis Meja
    contacts:
      sma:
        name: Andre
        phone: "+62 811-1111-111"
schedule:
  opening:
    name: Opening Ceremony
    date: "2025-09-01"
    time: "08:00"
    location: Main Hall
  registration:
    deadline: "2025-08-20"
`

	Convey("Given a populated bundle", t, func() {
		b, err := bundle.Decode([]byte(doc))
		So(err, ShouldBeNil)
		keys, contacts := bundle.BuildContactIndex(b)

		block := answer.ContextBlock(b, b.Identity(), keys, contacts, org)

		Convey("Then the overview and registration sections render", func() {
			So(block, ShouldContainSubstring, "Kompetisi antar sekolah tahunan.")
			So(block, ShouldContainSubstring, "Metode: Online via situs resmi")
			So(block, ShouldContainSubstring, "Biaya: Gratis")
			So(block, ShouldContainSubstring, "Batas: 2025-08-20")
			So(block, ShouldContainSubstring, "- SMP: Budi +62 822-2222-222")
		})

		Convey("Then schedule lines combine name, date, time and location", func() {
			So(block, ShouldContainSubstring, "Opening Ceremony: 2025-09-01, 08:00, Main Hall")
		})

		Convey("Then a nameless schedule entry falls back to its key", func() {
			So(block, ShouldContainSubstring, "Registration: 2025-08-20")
		})

		Convey("Then the creator attribution is present", func() {
			So(block, ShouldContainSubstring, "Chatbot ini dibuat oleh **Nicolas TL (2415674)**.")
		})

		Convey("Then the structured contact dump lists the indexed sports", func() {
			So(block, ShouldContainSubstring, "### Tenis Meja")
			So(block, ShouldContainSubstring, "- **SMA**: Andre +62 811-1111-111")
		})

		Convey("Then the closing line names the organizer channels", func() {
			So(block, ShouldContainSubstring, "Semua informasi resmi ada di **cccup.id**")
		})
	})

	Convey("Given a bundle with an explicitly empty registration block", t, func() {
		b, err := bundle.Decode([]byte("meta:\n  schema_version: 1\nfaq:\n  pendaftaran: {}\n"))
		So(err, ShouldBeNil)

		block := answer.ContextBlock(b, b.Identity(), nil, nil, org)

		Convey("Then the registration section is skipped, not rendered as dashes", func() {
			So(block, ShouldNotContainSubstring, "## Pendaftaran")
			So(block, ShouldNotContainSubstring, "Metode: -")
		})
	})

	Convey("Given a schedule key starting with a multibyte rune", t, func() {
		b, err := bundle.Decode([]byte(`
meta:
  schema_version: 1
schedule:
  édisi_final:
    date: "2025-09-07"
`))
		So(err, ShouldBeNil)

		block := answer.ContextBlock(b, b.Identity(), nil, nil, org)

		Convey("Then the fallback heading uppercases the whole rune", func() {
			So(block, ShouldContainSubstring, "Édisi Final: 2025-09-07")
		})
	})

	Convey("Given an empty bundle", t, func() {
		b := &bundle.Bundle{}
		block := answer.ContextBlock(b, "Nicolas TL (2415674)", nil, nil, org)

		Convey("Then only the fixed sections render", func() {
			So(block, ShouldContainSubstring, "# Basis Data (Ringkas)")
			So(block, ShouldContainSubstring, "## Pembuat")
			So(block, ShouldNotContainSubstring, "## Pendaftaran")
			So(block, ShouldNotContainSubstring, "## Kontak (Terstruktur)")
		})
	})
}
