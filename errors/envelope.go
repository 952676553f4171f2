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

package errors

import (
	"net/http"
)

// EnvelopeBody is the JSON body produced by [Envelope].
type EnvelopeBody struct {
	Message string        `json:"message"`
	Data    any           `json:"data"`
	State   EnvelopeState `json:"state"`
}

// EnvelopeState reports the outcome carried by an [EnvelopeBody].
type EnvelopeState struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// Envelope formats errors as {message, data, state:{success:false, status}}.
// It produces responses with Content-Type "application/json".
//
// The status comes from StatusResolver when set, then from [ErrorType],
// then defaults to 500. Data comes from [ErrorDetails]. The error message is
// exposed as is.
type Envelope struct {
	// StatusResolver determines HTTP status from error.
	// If nil, uses ErrorType interface or defaults to 500.
	StatusResolver func(err error) int
}

// NewEnvelope creates a new Envelope formatter.
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// Format converts an error into an envelope response.
func (f *Envelope) Format(_ *http.Request, err error) Response {
	status := f.determineStatus(err)

	body := EnvelopeBody{
		Message: messageOf(err, status),
		Data:    DetailsOf(err),
		State: EnvelopeState{
			Success: false,
			Status:  status,
		},
	}

	return Response{
		Status:      status,
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}
}

func (f *Envelope) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}

	return StatusOf(err)
}

func messageOf(err error, status int) string {
	if err == nil {
		return http.StatusText(status)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}

	return http.StatusText(status)
}
