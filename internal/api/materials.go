package api

import (
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/edstack/relay/internal/server"
)

// MaterialsSignURLRequest contains the desired file name for an upload.
type MaterialsSignURLRequest struct {
	FileName string `json:"fileName"`
}

// Validate checks the request shape.
func (req MaterialsSignURLRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FileName, validation.Required),
	)
}

// MaterialsSignURLResponse carries the one-shot upload capability plus the
// bucket it is valid for.
type MaterialsSignURLResponse struct {
	OK        bool   `json:"ok"`
	SignedURL string `json:"signedUrl"`
	Token     string `json:"token,omitempty"`
	Path      string `json:"path"`
	Bucket    string `json:"bucket"`
}

// objectKey prefixes the file name with the current epoch milliseconds so
// repeated uploads of the same name never collide.
func objectKey(now time.Time, fileName string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), fileName)
}

// MaterialsSignURLHandler mints a signed upload URL for the materials
// bucket. The upload itself happens out-of-band against the returned URL.
func MaterialsSignURLHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, "POST") {
			return
		}
		log := requestLogger(srv, r)

		var req MaterialsSignURLRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Error("error decoding sign-url request", "error", err)
			respondError(w, log, http.StatusBadRequest,
				fmt.Sprintf("bad request: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, log, http.StatusBadRequest, err.Error())
			return
		}

		if srv.Storage == nil {
			respondConfigError(w, log, "storage")
			return
		}

		key := objectKey(time.Now(), req.FileName)
		signed, err := srv.Storage.SignUpload(r.Context(), key)
		if err != nil {
			relayError(w, log, err)
			return
		}

		respondJSON(w, log, http.StatusOK, MaterialsSignURLResponse{
			OK:        true,
			SignedURL: signed.SignedURL,
			Token:     signed.Token,
			Path:      signed.Path,
			Bucket:    srv.Storage.Bucket(),
		})
	})
}

// MaterialsPublicURLRequest contains an object path previously stored in
// the bucket.
type MaterialsPublicURLRequest struct {
	Path string `json:"path"`
}

// Validate checks the request shape.
func (req MaterialsPublicURLRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Path, validation.Required),
	)
}

// MaterialsPublicURLResponse carries the publicly resolvable URL.
type MaterialsPublicURLResponse struct {
	OK  bool   `json:"ok"`
	URL string `json:"url"`
}

// MaterialsPublicURLHandler resolves the public URL for an object path.
// Pure lookup, no side effects. Note: any caller can resolve any path in
// the bucket; there is deliberately no authorization check here.
func MaterialsPublicURLHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, "POST") {
			return
		}
		log := requestLogger(srv, r)

		var req MaterialsPublicURLRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Error("error decoding public-url request", "error", err)
			respondError(w, log, http.StatusBadRequest,
				fmt.Sprintf("bad request: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, log, http.StatusBadRequest, err.Error())
			return
		}

		if srv.Storage == nil {
			respondConfigError(w, log, "storage")
			return
		}

		respondJSON(w, log, http.StatusOK, MaterialsPublicURLResponse{
			OK:  true,
			URL: srv.Storage.PublicURL(req.Path),
		})
	})
}
