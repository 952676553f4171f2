// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ooneex/eagle-sub001/web"
)

var errUnsupportedBody = errors.New("unsupported content type")

type bodyDecoder func(data []byte, v any) error

var bodyDecoders = map[string]bodyDecoder{
	"application/json":        json.Unmarshal,
	"application/msgpack":     msgpack.Unmarshal,
	"application/x-msgpack":   msgpack.Unmarshal,
	"application/vnd.msgpack": msgpack.Unmarshal,
	"application/yaml":        yaml.Unmarshal,
	"application/x-yaml":      yaml.Unmarshal,
	"text/yaml":               yaml.Unmarshal,
}

// payloadDecoder returns the decoder for a structured body content type.
func payloadDecoder(ct string) (bodyDecoder, bool) {
	if decode, ok := bodyDecoders[ct]; ok {
		return decode, true
	}
	if strings.HasSuffix(ct, "+json") {
		return json.Unmarshal, true
	}

	return nil, false
}

// sniff parses the request body according to its content type. Failures are
// logged at debug level and leave an empty payload or form behind. A
// structured body that is missing, empty or undecodable yields an empty map
// payload.
func (h *Handler) sniff(c *web.Context) {
	ct := c.Request.ContentType()
	raw := c.Request.Raw()
	if raw.Body == nil || raw.Body == http.NoBody {
		if _, ok := payloadDecoder(ct); ok {
			c.Request.Payload = map[string]any{}
		}
		return
	}

	var err error
	switch {
	case ct == "multipart/form-data":
		err = h.parseMultipart(c)
	case ct == "application/x-www-form-urlencoded":
		err = h.parseURLEncoded(c)
	default:
		err = h.parsePayload(c, ct)
	}
	if err != nil && !errors.Is(err, errUnsupportedBody) {
		c.Logger.Debug("request body ignored", "content_type", ct, "error", err)
	}
}

func (h *Handler) parsePayload(c *web.Context, ct string) error {
	decode, ok := payloadDecoder(ct)
	if !ok {
		return errUnsupportedBody
	}
	c.Request.Payload = map[string]any{}

	data, err := h.readBody(c)
	if err != nil || len(data) == 0 {
		return err
	}

	var payload any
	if err = decode(data, &payload); err != nil {
		return fmt.Errorf("decode %s body: %w", ct, err)
	}
	if payload != nil {
		c.Request.Payload = payload
	}

	return nil
}

func (h *Handler) parseURLEncoded(c *web.Context) error {
	data, err := h.readBody(c)
	if err != nil {
		return err
	}

	values, err := url.ParseQuery(string(data))
	if err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	c.Request.Form = values

	return nil
}

func (h *Handler) parseMultipart(c *web.Context) error {
	raw := c.Request.Raw()
	if _, params, err := mime.ParseMediaType(raw.Header.Get("Content-Type")); err != nil || params["boundary"] == "" {
		return fmt.Errorf("multipart boundary missing")
	}

	raw.Body = http.MaxBytesReader(nil, raw.Body, h.maxBodyBytes)
	if err := raw.ParseMultipartForm(h.maxMemory); err != nil {
		return fmt.Errorf("parse multipart form: %w", err)
	}
	c.Request.Form = url.Values(raw.MultipartForm.Value)
	c.Request.Files = raw.MultipartForm.File

	return nil
}

// readBody buffers the body and puts a fresh reader back on the request so
// controllers can read it again.
func (h *Handler) readBody(c *web.Context) ([]byte, error) {
	raw := c.Request.Raw()
	data, err := io.ReadAll(http.MaxBytesReader(nil, raw.Body, h.maxBodyBytes))
	_ = raw.Body.Close()
	raw.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	c.Request.Body = data

	return data, nil
}
