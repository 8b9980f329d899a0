package scanserver

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-capture/internal/invoice"
	"github.com/zombor/invoice-capture/internal/onec"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("scans", func() {
		var scan *Scan

		BeforeEach(func() {
			scan = &Scan{
				ID:          "scan-1",
				Hash:        "abc123",
				Filename:    "scan-1_invoice.jpg",
				ContentType: "image/jpeg",
				Response: ScanResponse{
					SupplierINN: "7707083893",
					DocNumber:   "A-17",
					Items:       []map[string]any{{"ItemName": "Paper"}},
				},
				CreatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
			}
			Expect(db.SaveScan(scan)).To(Succeed())
		})

		It("should find a scan by hash", func() {
			found, err := db.GetScan("abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal("scan-1"))
			Expect(found.Response.DocNumber).To(Equal("A-17"))
			Expect(found.Response.Items).To(Equal([]map[string]any{{"ItemName": "Paper"}}))
			Expect(found.CreatedAt.Equal(scan.CreatedAt)).To(BeTrue())
		})

		It("should report a missing hash as not found", func() {
			_, err := db.GetScan("missing")
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		})

		It("should survive a reopen", func() {
			Expect(db.Close()).To(Succeed())
			var err error
			db, err = NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())

			found, err := db.GetScan("abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal("scan-1"))
		})
	})

	Describe("submissions", func() {
		When("the journal is empty", func() {
			It("should return an empty list", func() {
				submissions, err := db.ListSubmissions()
				Expect(err).NotTo(HaveOccurred())
				Expect(submissions).NotTo(BeNil())
				Expect(submissions).To(BeEmpty())
			})
		})

		When("submissions are saved", func() {
			BeforeEach(func() {
				for _, id := range []string{"0190-b", "0190-a", "0190-c"} {
					Expect(db.SaveSubmission(&Submission{
						ID:      id,
						Payload: invoice.Payload{SupplierINN: "7707083893", TotalSum: "10", Items: []invoice.LineItem{}},
						Result:  onec.Result{Success: true},
					})).To(Succeed())
				}
			})

			It("should list them in key order", func() {
				submissions, err := db.ListSubmissions()
				Expect(err).NotTo(HaveOccurred())
				Expect(submissions).To(HaveLen(3))
				Expect(submissions[0].ID).To(Equal("0190-a"))
				Expect(submissions[1].ID).To(Equal("0190-b"))
				Expect(submissions[2].ID).To(Equal("0190-c"))
			})

			It("should round-trip the payload", func() {
				submissions, err := db.ListSubmissions()
				Expect(err).NotTo(HaveOccurred())
				Expect(submissions[0].Payload.SupplierINN).To(Equal("7707083893"))
				Expect(submissions[0].Payload.TotalSum).To(Equal(invoice.Amount("10")))
				Expect(submissions[0].Result.Success).To(BeTrue())
			})
		})
	})

	Describe("NewBoltDB", func() {
		It("should fail for a path in a missing directory", func() {
			_, err := NewBoltDB(filepath.Join(tmpDir, "missing", "test.db"))
			Expect(err).To(HaveOccurred())
		})
	})
})
