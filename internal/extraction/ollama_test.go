package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server    *ghttp.Server
		extractor *Ollama
		received  ollamaChatRequest
		pngData   []byte
		mimeType  string
		doc       *Document
		err       error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		received = ollamaChatRequest{}
		pngData = []byte("already a png")
		mimeType = "image/png"

		var newErr error
		extractor, newErr = NewOllama(server.URL()+"/", "llava")
		Expect(newErr).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		doc, err = extractor.Extract(context.Background(), "bill.png", pngData, mimeType)
	})

	When("the model answers with a bill", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{
						Role:    "assistant",
						Content: "```json\n{\"header\": {\"vendor\": \"PARTS CO\", \"date\": \"2024-02-01\"}, \"items\": [{\"desc\": \"NUT\", \"sku\": \"N1\", \"qty\": 3, \"unit\": \"PC\", \"rate\": 1.5}]}\n```",
					},
					Done: true,
				}),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should parse the answer", func() {
			Expect(*doc.Header.Vendor).To(Equal("PARTS CO"))
			Expect(*doc.Header.Date).To(Equal("2024-02-01"))
			Expect(doc.Items).To(Equal([]Item{{Desc: "NUT", SKU: "N1", Qty: 3, Unit: "PC", Rate: 1.5}}))
		})

		It("should send the configured model without streaming", func() {
			Expect(received.Model).To(Equal("llava"))
			Expect(received.Stream).To(BeFalse())
			Expect(received.Format).To(Equal("json"))
		})

		It("should attach the image to the user message", func() {
			Expect(received.Messages).To(HaveLen(2))
			Expect(received.Messages[1].Images).To(ConsistOf(base64.StdEncoding.EncodeToString(pngData)))
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusNotFound, "model not found"))
		})

		It("returns the error with the status", func() {
			Expect(err).To(MatchError(ContainSubstring("status 404")))
			Expect(err).To(MatchError(ContainSubstring("model not found")))
		})
	})

	When("the model answers with prose", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
				Message: ollamaMessage{Role: "assistant", Content: "I cannot read this document."},
				Done:    true,
			}))
		})

		It("returns a parse error", func() {
			Expect(err).To(MatchError(ContainSubstring("parsing bill data")))
		})
	})

	When("the upload is not a readable image", func() {
		BeforeEach(func() {
			pngData = []byte("plain text")
			mimeType = "text/plain"
		})

		It("fails before calling the API", func() {
			Expect(err).To(MatchError(ErrUnsupportedFormat))
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})
})

var _ = Describe("NewOllama", func() {
	It("should fall back to defaults", func() {
		o, err := NewOllama("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(o.baseURL).To(Equal("http://localhost:11434"))
		Expect(o.model).To(Equal("llava"))
	})
})

var _ = Describe("NewGemini", func() {
	It("requires an API key", func() {
		_, err := NewGemini("", "")
		Expect(err).To(MatchError(ContainSubstring("api key is required")))
	})
})
