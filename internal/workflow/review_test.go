package workflow

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/extraction"
	"github.com/zombor/invoice-capture/internal/invoice"
)

// ingested builds a harness whose queue holds one document per name
func ingested(names ...string) *harness {
	h := newHarness()
	files := make([]extraction.File, 0, len(names))
	for _, name := range names {
		h.extractor.results[name] = okResult("Paper", "Pens")
		files = append(files, pngFile(name))
	}
	h.build()
	h.workflow.Ingest(context.Background(), files)
	h.host.alerts = nil
	h.host.haptics.notifications = nil
	return h
}

var _ = Describe("Review", func() {
	var h *harness

	Describe("SelectDocument", func() {
		BeforeEach(func() {
			h = ingested("a.png", "b.png", "c.png")
		})

		It("shows the picked document with a light impact", func() {
			h.workflow.SelectDocument(2)
			Expect(h.workflow.Queue().Index()).To(Equal(2))
			Expect(h.view.list[2].Active).To(BeTrue())
			Expect(h.view.list[0].Active).To(BeFalse())
			Expect(h.host.haptics.impacts).To(Equal([]bridge.Impact{bridge.ImpactLight}))
		})

		It("ignores indexes out of range", func() {
			h.workflow.SelectDocument(3)
			h.workflow.SelectDocument(-1)
			Expect(h.workflow.Queue().Index()).To(Equal(0))
			Expect(h.host.haptics.impacts).To(BeEmpty())
		})
	})

	Describe("editing", func() {
		BeforeEach(func() {
			h = ingested("a.png", "b.png")
		})

		It("saves grid edits into the current record", func() {
			h.grid.edit(0, func(item *invoice.LineItem) {
				item.Name = "Copy paper"
				item.UnitPrice = 2.5
			})
			doc, _ := h.workflow.Queue().Current()
			Expect(doc.Record.Items[0].Name).To(Equal("Copy paper"))
			Expect(doc.Record.Items[0].FormatTotal()).To(Equal("2.50"))
		})

		It("keeps edits when switching documents", func() {
			h.view.fields.DocumentNumber = "B-99"
			h.grid.edit(1, func(item *invoice.LineItem) { item.Quantity = 7 })

			h.workflow.SelectDocument(1)
			Expect(h.view.fields.DocumentNumber).To(Equal("A-17"))

			h.workflow.SelectDocument(0)
			Expect(h.view.fields.DocumentNumber).To(Equal("B-99"))
			Expect(h.grid.rows[1].Quantity).To(Equal(7.0))
		})

		It("never shares rows between the grid and the record", func() {
			doc, _ := h.workflow.Queue().Current()
			h.grid.rows[0].Name = "unsaved"
			Expect(doc.Record.Items[0].Name).To(Equal("Paper"))
		})

		It("adds an empty row with quantity 1", func() {
			h.workflow.AddItem()
			Expect(h.grid.rows).To(HaveLen(3))
			Expect(h.grid.rows[2]).To(Equal(invoice.LineItem{Quantity: 1}))
			doc, _ := h.workflow.Queue().Current()
			Expect(doc.Record.Items).To(HaveLen(3))
			Expect(h.host.haptics.impacts).To(Equal([]bridge.Impact{bridge.ImpactLight}))
		})
	})

	Describe("DeleteCurrent", func() {
		When("the operator declines", func() {
			BeforeEach(func() {
				h = ingested("a.png", "b.png")
				h.host.confirmAnswer = false
				h.workflow.DeleteCurrent()
			})

			It("keeps the document", func() {
				Expect(h.host.confirms).To(Equal([]string{"Delete the current document from the list?"}))
				Expect(h.workflow.Queue().Len()).To(Equal(2))
				Expect(h.host.haptics.notifications).To(BeEmpty())
			})
		})

		When("the last document of several is deleted", func() {
			BeforeEach(func() {
				h = ingested("a.png", "b.png", "c.png")
				h.host.confirmAnswer = true
				h.workflow.SelectDocument(2)
				h.workflow.DeleteCurrent()
			})

			It("shows the new last document", func() {
				Expect(h.workflow.Queue().Len()).To(Equal(2))
				Expect(h.workflow.Queue().Index()).To(Equal(1))
				doc, _ := h.workflow.Queue().Current()
				Expect(doc.FileName).To(Equal("b.png"))
				Expect(h.view.list).To(HaveLen(2))
				Expect(h.view.list[1].Position).To(Equal("2/2"))
				Expect(h.host.haptics.notifications).To(Equal([]bridge.Notification{bridge.NotificationSuccess}))
			})
		})

		When("the only document is deleted", func() {
			BeforeEach(func() {
				h = ingested("a.png")
				h.host.confirmAnswer = true
				h.workflow.DeleteCurrent()
			})

			It("returns to the capture screen", func() {
				Expect(h.workflow.Queue().Len()).To(Equal(0))
				Expect(h.workflow.Queue().Index()).To(Equal(-1))
				Expect(h.view.reviewVisible).To(BeFalse())
				Expect(h.view.captureVisible).To(BeTrue())
				Expect(h.view.fileInputCleared).To(Equal(1))
				Expect(h.view.list).To(BeEmpty())
				Expect(h.grid.rows).To(BeEmpty())
				Expect(h.host.main.visible).To(BeFalse())
				Expect(h.host.back.visible).To(BeFalse())
			})
		})
	})

	Describe("Back", func() {
		BeforeEach(func() {
			h = ingested("a.png", "b.png")
		})

		It("is wired to the host back button", func() {
			Expect(h.host.back.onClick).NotTo(BeNil())
		})

		When("the operator confirms", func() {
			BeforeEach(func() {
				h.host.confirmAnswer = true
				h.host.back.onClick()
			})

			It("discards the session", func() {
				Expect(h.host.confirms).To(Equal([]string{"Return to scanning? Unsaved changes will be lost."}))
				Expect(h.workflow.Queue().Len()).To(Equal(0))
				Expect(h.view.captureVisible).To(BeTrue())
				Expect(h.view.previewVisible).To(BeFalse())
			})
		})

		When("the operator declines", func() {
			BeforeEach(func() {
				h.host.back.onClick()
			})

			It("keeps the session", func() {
				Expect(h.workflow.Queue().Len()).To(Equal(2))
				Expect(h.view.reviewVisible).To(BeTrue())
			})
		})
	})
})
