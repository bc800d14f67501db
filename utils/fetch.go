package utils

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// maxFetchSize caps the size of a remote image.
const maxFetchSize = 64 << 20

// Remote holds a downloaded resource.
type Remote struct {
	Data        []byte
	ContentType string
	// CrossOrigin is set when the server did not allow cross origin reads.
	// Pixels of such images cannot be read back once they are drawn.
	CrossOrigin bool
}

var fetchClient = &http.Client{Timeout: 30 * time.Second}

// FetchImage downloads an image and checks that the payload is really an image.
func FetchImage(uri string) (*Remote, error) {
	res, err := fetchClient.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to download image file from URI %s: %w", uri, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Printf("could not close the response body: %v", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unable to download image file from URI %s: status %v", uri, res.Status)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	ctype := http.DetectContentType(data)
	if !strings.HasPrefix(ctype, "image/") && !IsSVG(data) {
		return nil, fmt.Errorf("the downloaded file is not a valid image type: %s", ctype)
	}
	if IsSVG(data) {
		ctype = "image/svg+xml"
	}

	return &Remote{
		Data:        data,
		ContentType: ctype,
		CrossOrigin: res.Header.Get("Access-Control-Allow-Origin") == "",
	}, nil
}

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(uri string) bool {
	if _, err := url.ParseRequestURI(uri); err != nil {
		return false
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return true
}

// IsSVG sniffs for an SVG document, which http.DetectContentType reports as text.
func IsSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// DetectContentType detects the file type by reading MIME type information of the file content.
func DetectContentType(fname string) (string, error) {
	file, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("could not close the opened file: %v", err)
		}
	}()

	// Only the first 512 bytes are used to sniff the content type.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if IsSVG(buffer[:n]) {
		return "image/svg+xml", nil
	}
	return http.DetectContentType(buffer[:n]), nil
}
