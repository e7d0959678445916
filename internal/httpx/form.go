package httpx

import (
	"errors"
	"io"
	"net/http"
	"strconv"
)

const maxUploadBytes = 10 << 20

// FormImage extracts the optional "image" file from a multipart form,
// buffering it in memory. A request without an image returns empty values
// and no error.
func FormImage(r *http.Request) (filename string, data []byte, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return "", nil, nil
		}
		return "", nil, err
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = file.Close() }()

	data, err = io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}

	return header.Filename, data, nil
}

// QueryInt reads a positive integer query parameter, falling back on
// absence or garbage.
func QueryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
