package services

import (
	"bytes"
	"io"
	"mime/multipart"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// multipartBody buffers the form in memory so the request can be sent again
// after a token refresh. A nil file sends only the fields.
func multipartBody(fields []formField, file *formFile) ([]byte, string, error) {
	body := bytes.Buffer{}
	form := multipart.NewWriter(&body)
	for _, field := range fields {
		if err := form.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	if file != nil {
		part, err := form.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", err
		}
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), form.FormDataContentType(), nil
}

func fileName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
