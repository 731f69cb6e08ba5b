// Package services contains typed calls to the seniku backend on top of the
// authenticated pipeline.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

// Sender sends a request relative to the API base URL.
type Sender interface {
	Send(ctx context.Context, request pipeline.Request) (*http.Response, error)
}

const maxErrorBody int64 = 64 * 1024

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// call sends the request and decodes the data of the response envelope.
func call[T any](ctx context.Context, sender Sender, request pipeline.Request) (T, error) {
	var output T
	resp, err := sender.Send(ctx, request)
	if err != nil {
		return output, err
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return output, apiError(resp)
	}
	envelope := models.Envelope[T]{}
	err = json.NewDecoder(resp.Body).Decode(&envelope)
	if err != nil {
		return output, err
	}
	if envelope.Data == nil {
		return output, apierrors.ErrEmptyResponse
	}
	return *envelope.Data, nil
}

// callNoData is used for endpoints answering with a null data field.
func callNoData(ctx context.Context, sender Sender, request pipeline.Request) error {
	resp, err := sender.Send(ctx, request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return apiError(resp)
	}
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

func sendJSON[T any](ctx context.Context, sender Sender, method, path string, payload any) (T, error) {
	request, err := pipeline.NewJSONRequest(method, path, payload)
	if err != nil {
		var output T
		return output, err
	}
	return call[T](ctx, sender, request)
}

// apiError converts a failed response into an *apierrors.APIError. Bodies that are not
// an envelope keep the raw text as the message.
func apiError(resp *http.Response) error {
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return errors.Join(&apierrors.APIError{StatusCode: resp.StatusCode}, err)
	}
	envelope := models.Envelope[json.RawMessage]{}
	if err := json.Unmarshal(content, &envelope); err != nil || envelope.Message == "" {
		return &apierrors.APIError{StatusCode: resp.StatusCode, Message: string(content)}
	}
	return &apierrors.APIError{StatusCode: resp.StatusCode, Message: envelope.Message, Fields: envelope.Errors}
}
