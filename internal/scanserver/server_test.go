package scanserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/invoice-capture/internal/onec"
)

// uploadBody builds a multipart body with one "file" part
func uploadBody(filename, contentType string, data []byte) (*bytes.Buffer, string) {
	var b bytes.Buffer
	writer := multipart.NewWriter(&b)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(data)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return &b, writer.FormDataContentType()
}

func decodeBody(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	var decoded map[string]any
	Expect(json.Unmarshal(body, &decoded)).To(Succeed())
	return decoded
}

var _ = Describe("Server", func() {
	var (
		db          *mockDB
		scanner     *mockScanner
		forwarder   *mockForwarder
		server      *Server
		ghttpServer *ghttp.Server
	)

	BeforeEach(func() {
		db = newMockDB()
		scanner = newMockScanner()
		forwarder = &mockForwarder{result: onec.Result{Success: true, DocNumber: "42"}}
		service := NewServiceWithDeps(db, scanner, newMockStorage(), forwarder,
			&mockIDGenerator{id: "id-1"}, &mockTimeSource{now: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})
		server = NewServerWithMux(service, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	})

	AfterEach(func() {
		ghttpServer.Close()
	})

	Describe("handleScan", func() {
		When("the upload is scanned", func() {
			It("should answer the invoice as JSON", func() {
				body, contentType := uploadBody("invoice.jpg", "image/jpeg", []byte("fake image data"))
				resp, err := http.Post(ghttpServer.URL()+"/api/scan", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
				Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))

				decoded := decodeBody(resp)
				Expect(decoded["SupplierINN"]).To(Equal("7707083893"))
				Expect(decoded["Items"]).To(HaveLen(1))
				Expect(decoded).NotTo(HaveKey("error"))
			})
		})

		When("the part has no content type", func() {
			It("should detect it from the file name", func() {
				body, contentType := uploadBody("invoice.png", "", []byte("fake image data"))
				resp, err := http.Post(ghttpServer.URL()+"/api/scan", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(scanner.contentTypes).To(Equal([]string{"image/png"}))
			})
		})

		When("the scanner fails", func() {
			BeforeEach(func() {
				scanner.scanErr = errors.New("quota exceeded")
			})

			It("should answer 200 with the error and no items", func() {
				body, contentType := uploadBody("invoice.jpg", "image/jpeg", []byte("fake image data"))
				resp, err := http.Post(ghttpServer.URL()+"/api/scan", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				decoded := decodeBody(resp)
				Expect(decoded["error"]).To(ContainSubstring("quota exceeded"))
				Expect(decoded["Items"]).To(BeEmpty())
			})
		})

		When("no file is sent", func() {
			It("should return status Bad Request", func() {
				var b bytes.Buffer
				writer := multipart.NewWriter(&b)
				Expect(writer.WriteField("other", "value")).To(Succeed())
				Expect(writer.Close()).To(Succeed())

				resp, err := http.Post(ghttpServer.URL()+"/api/scan", writer.FormDataContentType(), &b)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(decodeBody(resp)["error"]).To(Equal("No file provided"))
			})
		})

		When("the body is not multipart", func() {
			It("should return status Bad Request", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/scan", "application/json", bytes.NewBufferString("{}"))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})
	})

	Describe("handleSubmit", func() {
		When("the payload is valid", func() {
			It("should forward it and answer the 1C result", func() {
				payload := `{"SupplierINN":"7707083893","DocNumber":"A-17","DocDate":"01.02.2024","TotalSum":"1250,5",` +
					`"Items":[{"ItemArticle":"","ItemName":"Paper","Quantity":2,"Price":100,"Total":999}],` +
					`"documentIndex":0,"totalDocuments":1}`
				resp, err := http.Post(ghttpServer.URL()+"/api/submit", "application/json", bytes.NewBufferString(payload))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				decoded := decodeBody(resp)
				Expect(decoded["success"]).To(BeTrue())
				Expect(decoded["doc_number"]).To(Equal("42"))

				Expect(forwarder.payloads).To(HaveLen(1))
				Expect(db.submissions).To(HaveLen(1))
				Expect(db.submissions[0].Payload.Items[0].Total()).To(Equal(200.0))
				Expect(db.submissions[0].Payload.TotalDocuments).To(Equal(1))
			})
		})

		When("the payload is not JSON", func() {
			It("should return status Bad Request", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/submit", "application/json", bytes.NewBufferString("nope"))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				decoded := decodeBody(resp)
				Expect(decoded["success"]).To(BeFalse())
				Expect(forwarder.payloads).To(BeEmpty())
			})
		})
	})

	Describe("handleListSubmissions", func() {
		When("listing fails", func() {
			BeforeEach(func() {
				db.listSubmitErr = errors.New("bolt closed")
			})

			It("should return status Internal Server Error", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/submissions")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
				resp.Body.Close()
			})
		})

		When("the journal is empty", func() {
			BeforeEach(func() {
				db.submissions = []*Submission{}
			})

			It("should return an empty array", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/submissions")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(body).To(MatchJSON(`[]`))
			})
		})
	})

	Describe("handleHealth", func() {
		It("should report ok", func() {
			resp, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeBody(resp)["status"]).To(Equal("ok"))
		})
	})

	Describe("CORS", func() {
		It("should answer preflight requests", func() {
			req, err := http.NewRequest(http.MethodOptions, ghttpServer.URL()+"/api/scan", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
		})
	})

	Describe("unknown routes", func() {
		It("should return status Method Not Allowed for a wrong method", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/scan")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
		})
	})
})
