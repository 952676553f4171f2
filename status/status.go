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

package status

import "net/http"

// Code is an HTTP status code.
type Code = int

// 1xx informational.
const (
	Continue           Code = http.StatusContinue
	SwitchingProtocols Code = http.StatusSwitchingProtocols
	Processing         Code = http.StatusProcessing
	EarlyHints         Code = http.StatusEarlyHints
)

// 2xx success.
const (
	OK                   Code = http.StatusOK
	Created              Code = http.StatusCreated
	Accepted             Code = http.StatusAccepted
	NonAuthoritativeInfo Code = http.StatusNonAuthoritativeInfo
	NoContent            Code = http.StatusNoContent
	ResetContent         Code = http.StatusResetContent
	PartialContent       Code = http.StatusPartialContent
	MultiStatus          Code = http.StatusMultiStatus
	AlreadyReported      Code = http.StatusAlreadyReported
	IMUsed               Code = http.StatusIMUsed
)

// 3xx redirection.
const (
	MultipleChoices   Code = http.StatusMultipleChoices
	MovedPermanently  Code = http.StatusMovedPermanently
	Found             Code = http.StatusFound
	SeeOther          Code = http.StatusSeeOther
	NotModified       Code = http.StatusNotModified
	UseProxy          Code = http.StatusUseProxy
	TemporaryRedirect Code = http.StatusTemporaryRedirect
	PermanentRedirect Code = http.StatusPermanentRedirect
)

// 4xx client errors.
const (
	BadRequest                   Code = http.StatusBadRequest
	Unauthorized                 Code = http.StatusUnauthorized
	PaymentRequired              Code = http.StatusPaymentRequired
	Forbidden                    Code = http.StatusForbidden
	NotFound                     Code = http.StatusNotFound
	MethodNotAllowed             Code = http.StatusMethodNotAllowed
	NotAcceptable                Code = http.StatusNotAcceptable
	ProxyAuthRequired            Code = http.StatusProxyAuthRequired
	RequestTimeout               Code = http.StatusRequestTimeout
	Conflict                     Code = http.StatusConflict
	Gone                         Code = http.StatusGone
	LengthRequired               Code = http.StatusLengthRequired
	PreconditionFailed           Code = http.StatusPreconditionFailed
	RequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge
	RequestURITooLong            Code = http.StatusRequestURITooLong
	UnsupportedMediaType         Code = http.StatusUnsupportedMediaType
	RequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable
	ExpectationFailed            Code = http.StatusExpectationFailed
	Teapot                       Code = http.StatusTeapot
	MisdirectedRequest           Code = http.StatusMisdirectedRequest
	UnprocessableEntity          Code = http.StatusUnprocessableEntity
	Locked                       Code = http.StatusLocked
	FailedDependency             Code = http.StatusFailedDependency
	TooEarly                     Code = http.StatusTooEarly
	UpgradeRequired              Code = http.StatusUpgradeRequired
	PreconditionRequired         Code = http.StatusPreconditionRequired
	TooManyRequests              Code = http.StatusTooManyRequests
	RequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge
	UnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons
)

// 5xx server errors.
const (
	InternalServerError           Code = http.StatusInternalServerError
	NotImplemented                Code = http.StatusNotImplemented
	BadGateway                    Code = http.StatusBadGateway
	ServiceUnavailable            Code = http.StatusServiceUnavailable
	GatewayTimeout                Code = http.StatusGatewayTimeout
	HTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported
	VariantAlsoNegotiates         Code = http.StatusVariantAlsoNegotiates
	InsufficientStorage           Code = http.StatusInsufficientStorage
	LoopDetected                  Code = http.StatusLoopDetected
	NotExtended                   Code = http.StatusNotExtended
	NetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired
)

// IsValid reports whether code lies in the 100–599 range.
func IsValid(code Code) bool {
	return code >= 100 && code <= 599
}

// IsInformational reports whether code is a 1xx code.
func IsInformational(code Code) bool {
	return code >= 100 && code < 200
}

// IsSuccess reports whether code is a 2xx code.
func IsSuccess(code Code) bool {
	return code >= 200 && code < 300
}

// IsRedirect reports whether code is a 3xx code.
func IsRedirect(code Code) bool {
	return code >= 300 && code < 400
}

// IsClientError reports whether code is a 4xx code.
func IsClientError(code Code) bool {
	return code >= 400 && code < 500
}

// IsServerError reports whether code is a 5xx code.
func IsServerError(code Code) bool {
	return code >= 500 && code < 600
}

// IsError reports whether code is a 4xx or 5xx code.
func IsError(code Code) bool {
	return IsClientError(code) || IsServerError(code)
}

// Text returns the reason phrase for code, or "" when the code is unknown.
func Text(code Code) string {
	return http.StatusText(code)
}
