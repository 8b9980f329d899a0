package workflow

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/extraction"
	"github.com/zombor/invoice-capture/internal/imaging"
	"github.com/zombor/invoice-capture/internal/invoice"
)

var _ = Describe("Ingest", func() {
	var (
		h       *harness
		files   []extraction.File
		ctx     context.Context
		summary Summary
	)

	BeforeEach(func() {
		h = newHarness()
		ctx = context.Background()
		files = nil
	})

	JustBeforeEach(func() {
		h.build()
		summary = h.workflow.Ingest(ctx, files)
	})

	When("every file yields items", func() {
		BeforeEach(func() {
			h.extractor.results["a.png"] = okResult("Paper", "Pens", "Stapler")
			h.extractor.results["b.png"] = okResult("Toner")
			files = []extraction.File{pngFile("a.png"), pngFile("b.png")}
		})

		It("queues every document in order with unique ids", func() {
			docs := h.workflow.Queue().Documents()
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].FileName).To(Equal("a.png"))
			Expect(docs[1].FileName).To(Equal("b.png"))
			Expect(docs[0].ID).NotTo(Equal(docs[1].ID))
			Expect(docs[0].Status).To(Equal(invoice.StatusReady))
			Expect(docs[0].Record.Items).To(HaveLen(3))
		})

		It("extracts sequentially", func() {
			Expect(h.extractor.calls).To(Equal([]string{"a.png", "b.png"}))
		})

		It("shows the first document", func() {
			Expect(h.workflow.Queue().Index()).To(Equal(0))
			Expect(h.view.preview).To(Equal(imaging.DataURL("image/png", []byte("a.png"))))
			Expect(h.view.fields).To(Equal(Fields{
				SupplierTaxID:  "7707083893",
				DocumentNumber: "A-17",
				DocumentDate:   "01.02.2024",
				TotalAmount:    "1250.5",
			}))
			Expect(h.grid.rows).To(Equal(items("Paper", "Pens", "Stapler")))
		})

		It("reveals the review surface", func() {
			Expect(h.view.reviewVisible).To(BeTrue())
			Expect(h.view.progressVisible).To(BeFalse())
			Expect(h.view.captureVisible).To(BeFalse())
			Expect(h.host.back.visible).To(BeTrue())
			Expect(h.host.main.visible).To(BeTrue())
			Expect(h.host.main.text).To(Equal("📤 Submit"))
		})

		It("renders the documents list", func() {
			Expect(h.view.list).To(Equal([]ListEntry{
				{Index: 0, Name: "a.png", Icon: "📄", Active: true, Position: "1/2"},
				{Index: 1, Name: "b.png", Icon: "📄", Active: false, Position: "2/2"},
			}))
		})

		It("summarizes the batch", func() {
			Expect(summary).To(Equal(Summary{Total: 2, Processed: 2}))
			Expect(h.host.alerts).To(Equal([]string{"✅ Processed 2 of 2"}))
			Expect(h.host.haptics.notifications).To(Equal([]bridge.Notification{
				bridge.NotificationSuccess,
				bridge.NotificationSuccess,
				bridge.NotificationSuccess,
			}))
		})
	})

	When("a single file yields items", func() {
		BeforeEach(func() {
			h.extractor.results["a.png"] = okResult("Paper")
			files = []extraction.File{pngFile("a.png")}
		})

		It("does not alert a summary", func() {
			Expect(summary.Processed).To(Equal(1))
			Expect(h.host.alerts).To(BeEmpty())
		})
	})

	When("the service renders its own preview", func() {
		BeforeEach(func() {
			result := okResult("Paper")
			result.Preview = "data:image/png;base64,UEFHRTE="
			h.extractor.results["scan.pdf"] = result
			files = []extraction.File{{Name: "scan.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}}
		})

		It("prefers the service preview", func() {
			doc, ok := h.workflow.Queue().Current()
			Expect(ok).To(BeTrue())
			Expect(doc.Preview).To(Equal("data:image/png;base64,UEFHRTE="))
		})
	})

	When("some files fail", func() {
		BeforeEach(func() {
			h.extractor.results["ok.png"] = okResult("Paper", "Pens")
			h.extractor.results["service.png"] = extraction.Result{Kind: extraction.KindServiceError, Message: "quota exceeded"}
			h.extractor.results["empty.png"] = extraction.Result{Kind: extraction.KindOK}
			h.extractor.results["big.png"] = extraction.Result{Kind: extraction.KindTooLarge}
			files = []extraction.File{
				pngFile("ok.png"),
				pngFile("network.png"),
				pngFile("service.png"),
				pngFile("empty.png"),
				pngFile("big.png"),
			}
		})

		It("keeps going after every failure", func() {
			Expect(h.extractor.calls).To(HaveLen(5))
			Expect(h.workflow.Queue().Len()).To(Equal(1))
		})

		It("alerts each failure by file name", func() {
			Expect(h.host.alerts).To(Equal([]string{
				"❌ Network error processing \"network.png\": connection refused",
				"❌ Error processing \"service.png\":\nquota exceeded",
				"❌ No items found in \"empty.png\"",
				"❌ File \"big.png\" is too large (maximum 10MB)",
				"✅ Processed 1 of 5",
			}))
		})

		It("gives haptic feedback per outcome", func() {
			Expect(h.host.haptics.notifications).To(Equal([]bridge.Notification{
				bridge.NotificationSuccess,
				bridge.NotificationError,
				bridge.NotificationError,
				bridge.NotificationWarning,
				bridge.NotificationError,
				bridge.NotificationSuccess,
			}))
		})

		It("reports the failures", func() {
			Expect(summary.Total).To(Equal(5))
			Expect(summary.Processed).To(Equal(1))
			Expect(summary.Failures).To(HaveLen(4))
			Expect(summary.Failures[0].Kind).To(Equal(extraction.KindNetworkError))
			Expect(summary.Failures[2].Kind).To(Equal(extraction.KindOK))
			Expect(summary.Failures[3].FileName).To(Equal("big.png"))
		})
	})

	When("no file yields items", func() {
		BeforeEach(func() {
			h.extractor.results["empty.png"] = extraction.Result{Kind: extraction.KindOK}
			files = []extraction.File{pngFile("empty.png"), pngFile("down.png")}
		})

		It("restores the capture screen", func() {
			Expect(h.workflow.Queue().Len()).To(Equal(0))
			Expect(h.view.captureVisible).To(BeTrue())
			Expect(h.view.progressVisible).To(BeFalse())
			Expect(h.view.previewVisible).To(BeFalse())
			Expect(h.view.reviewVisible).To(BeFalse())
		})

		It("leaves the host controls hidden", func() {
			Expect(h.host.main.visible).To(BeFalse())
			Expect(h.host.back.visible).To(BeFalse())
		})

		It("does not alert a summary", func() {
			Expect(h.host.alerts).To(HaveLen(2))
			Expect(h.host.haptics.notifications).To(Equal([]bridge.Notification{
				bridge.NotificationWarning,
				bridge.NotificationError,
			}))
		})
	})

	When("the host has no back control", func() {
		BeforeEach(func() {
			h.host.backSupported = false
			h.extractor.results["a.png"] = okResult("Paper")
			files = []extraction.File{pngFile("a.png")}
		})

		It("still reveals the review surface", func() {
			Expect(h.view.reviewVisible).To(BeTrue())
			Expect(h.host.back.visible).To(BeFalse())
		})
	})

	When("extraction takes a while", func() {
		BeforeEach(func() {
			h.extractor.delay = 60 * time.Millisecond
			h.extractor.results["a.png"] = okResult("Paper")
			h.extractor.results["b.png"] = okResult("Pens")
			files = []extraction.File{pngFile("a.png"), pngFile("b.png")}
		})

		It("animates the progress text per document", func() {
			texts := h.view.progressTexts()
			Expect(texts).To(ContainElement("Processing document 1 of 2"))
			Expect(texts).To(ContainElement("Processing document 2 of 2"))
			Expect(texts).To(ContainElement("Processing document 1 of 2."))
			Expect(texts).To(ContainElement("Processing document 2 of 2..."))
			for _, text := range texts {
				Expect(text).To(MatchRegexp(`^Processing document [12] of 2\.{0,3}$`))
			}
		})

		It("stops the animation before returning", func() {
			n := len(h.view.progressTexts())
			Consistently(func() int {
				return len(h.view.progressTexts())
			}, 50*time.Millisecond, 5*time.Millisecond).Should(Equal(n))
		})
	})

	When("the context is already cancelled", func() {
		BeforeEach(func() {
			var cancel context.CancelFunc
			ctx, cancel = context.WithCancel(context.Background())
			cancel()
			h.extractor.results["a.png"] = okResult("Paper")
			files = []extraction.File{pngFile("a.png"), pngFile("b.png")}
		})

		It("extracts nothing and restores the capture screen", func() {
			Expect(h.extractor.calls).To(BeEmpty())
			Expect(summary.Processed).To(Equal(0))
			Expect(h.view.captureVisible).To(BeTrue())
		})
	})

	When("no files are selected", func() {
		It("does nothing", func() {
			Expect(summary).To(Equal(Summary{}))
			Expect(h.view.captureVisible).To(BeTrue())
			Expect(h.view.progressTexts()).To(BeEmpty())
		})
	})
})
