package bgremove

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	editor "github.com/MadMatas/img-editor"
	"github.com/pkg/errors"
)

// FormField is the multipart field holding the uploaded image.
const FormField = "image"

// HTTPRemover delegates the background removal to a remote service accepting
// a multipart upload and answering with a PNG image.
type HTTPRemover struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPRemover creates a client of the removal service found at endpoint.
func NewHTTPRemover(endpoint string) *HTTPRemover {
	return &HTTPRemover{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 2 * time.Minute},
	}
}

// Remove implements the Remover interface.
func (r *HTTPRemover) Remove(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile(FormField, "image.png")
	if err != nil {
		return nil, errors.Wrap(err, "could not create the multipart form")
	}
	if err := png.Encode(part, img); err != nil {
		return nil, errors.Wrap(err, "could not encode the image")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "could not close the multipart form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "could not create the request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", r.Endpoint)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Printf("could not close the response body: %v", err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, errors.Errorf("removal service answered %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/png") {
		return nil, errors.Errorf("unexpected content type %q", ct)
	}

	out, err := png.Decode(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the response image")
	}
	return editor.FitMaxSize(out, 0), nil
}
