// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package nem_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	api "github.com/optakt/nem-adapter/api/nem"
	"github.com/optakt/nem-adapter/testing/mocks"
)

// deps bundles one mock per API dependency so tests can override just
// the behavior they exercise.
type deps struct {
	ledger    *mocks.Ledger
	build     *mocks.Builder
	broadcast *mocks.Broadcaster
	resolve   *mocks.Resolver
	registry  *mocks.Registry
	catalog   *mocks.Catalog
	read      *mocks.Reader
	write     *mocks.Writer
}

func baselineAPI(t *testing.T) (*api.API, *deps) {
	t.Helper()

	d := deps{
		ledger:    mocks.BaselineLedger(t),
		build:     mocks.BaselineBuilder(t),
		broadcast: mocks.BaselineBroadcaster(t),
		resolve:   mocks.BaselineResolver(t),
		registry:  mocks.BaselineRegistry(t),
		catalog:   mocks.BaselineCatalog(t),
		read:      mocks.BaselineReader(t),
		write:     mocks.BaselineWriter(t),
	}

	a := api.NewAPI(
		mocks.GenericParams(),
		d.ledger,
		d.build,
		d.broadcast,
		d.resolve,
		d.registry,
		d.catalog,
		d.read,
		d.write,
	)

	return a, &d
}

// request creates an echo context for a handler invocation, along with
// the recorder capturing its response.
func request(t *testing.T, method string, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	svr := echo.New()
	svr.Validator = api.NewValidator()

	return svr.NewContext(req, rec), rec
}

// httpStatus extracts the status code of a handler error.
func httpStatus(t *testing.T, err error) int {
	t.Helper()

	echoErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo HTTP error, got %v", err)
	}
	return echoErr.Code
}

// errorBody extracts the structured error body of a handler error.
func errorBody(t *testing.T, err error) api.Error {
	t.Helper()

	echoErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo HTTP error, got %v", err)
	}
	body, ok := echoErr.Message.(api.Error)
	if !ok {
		t.Fatalf("expected structured error body, got %v", echoErr.Message)
	}
	return body
}
