// Copyright (c) 2026, The netpulse authors.  All rights reserved.
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

package social

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dghubble/oauth1"
)

func testAuthServer(t *testing.T) (*httptest.Server, oauth1.Endpoint) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/request_token", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "OAuth ") {
			t.Error("request token call is not OAuth-signed")
		}
		fmt.Fprint(w, "oauth_token=temp-tok&oauth_token_secret=temp-sec&oauth_callback_confirmed=true")
	})
	mux.HandleFunc("/access_token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "oauth_token=access-tok&oauth_token_secret=access-sec")
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts, oauth1.Endpoint{
		RequestTokenURL: ts.URL + "/request_token",
		AuthorizeURL:    ts.URL + "/authorize",
		AccessTokenURL:  ts.URL + "/access_token",
	}
}

func TestAuthorizerFlow(t *testing.T) {
	_, endpoint := testAuthServer(t)

	auth := NewAuthorizer("ck", "cs", WithEndpoint(endpoint))

	grant, err := auth.Start()
	if err != nil {
		t.Fatalf("Start(): %v", err)
	}
	if !strings.Contains(grant.AuthorizeURL, "/authorize") {
		t.Errorf("authorize URL %q does not point at the authorize endpoint", grant.AuthorizeURL)
	}
	if !strings.Contains(grant.AuthorizeURL, "oauth_token=temp-tok") {
		t.Errorf("authorize URL %q does not carry the request token", grant.AuthorizeURL)
	}

	// The PIN is whitespace-trimmed before the exchange.
	token, secret, err := auth.Exchange(grant, " 123456 \n")
	if err != nil {
		t.Fatalf("Exchange(): %v", err)
	}
	if token != "access-tok" || secret != "access-sec" {
		t.Errorf("Exchange() = (%q, %q), want (access-tok, access-sec)", token, secret)
	}
}

func TestAuthorizerStartMissingConsumer(t *testing.T) {
	auth := NewAuthorizer("", "")
	if _, err := auth.Start(); err == nil {
		t.Error("Start() without consumer credentials = nil error")
	}
}

func TestAuthorizerExchangeEmptyVerifier(t *testing.T) {
	_, endpoint := testAuthServer(t)
	auth := NewAuthorizer("ck", "cs", WithEndpoint(endpoint))

	grant, err := auth.Start()
	if err != nil {
		t.Fatalf("Start(): %v", err)
	}
	if _, _, err := auth.Exchange(grant, "   "); err == nil {
		t.Error("Exchange() with blank verifier = nil error")
	}
}

func TestAuthorizerExchangeUnstartedGrant(t *testing.T) {
	auth := NewAuthorizer("ck", "cs")
	if _, _, err := auth.Exchange(&Grant{}, "123456"); err == nil {
		t.Error("Exchange() with unstarted grant = nil error")
	}
	if _, _, err := auth.Exchange(nil, "123456"); err == nil {
		t.Error("Exchange() with nil grant = nil error")
	}
}
