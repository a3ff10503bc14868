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
	"strings"

	"github.com/dghubble/oauth1"
)

// oobCallback requests PIN-based authorization, for clients with no
// callback URL to receive the verifier on.
const oobCallback = "oob"

// Authorizer drives the PIN-based OAuth 1.0a grant used by first-run
// setup: request a temporary token, send the user to the authorize URL,
// and exchange the PIN they bring back for the permanent token pair.
type Authorizer struct {
	config *oauth1.Config
}

// Grant holds the state of one authorization attempt between Start and
// Exchange. The temporary credentials are deliberately unexported; they
// are only meaningful to the Exchange call.
type Grant struct {
	// AuthorizeURL is where the user approves access and receives the PIN.
	AuthorizeURL string

	requestToken  string
	requestSecret string
}

// NewAuthorizer builds an Authorizer from the application's consumer
// credentials. Only WithEndpoint has an effect among the options.
func NewAuthorizer(consumerKey, consumerSecret string, opts ...Option) *Authorizer {
	s := newSettings(opts)
	return &Authorizer{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    oobCallback,
			Endpoint:       s.endpoint,
		},
	}
}

// Start requests a temporary token and returns the grant the user must
// approve. The call is synchronous; the oauth1 token dance does not take
// a context.
func (a *Authorizer) Start() (*Grant, error) {
	if a.config.ConsumerKey == "" || a.config.ConsumerSecret == "" {
		return nil, fmt.Errorf("consumer key and secret are required")
	}

	requestToken, requestSecret, err := a.config.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain request token: %w", err)
	}

	authURL, err := a.config.AuthorizationURL(requestToken)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization URL: %w", err)
	}

	return &Grant{
		AuthorizeURL:  authURL.String(),
		requestToken:  requestToken,
		requestSecret: requestSecret,
	}, nil
}

// Exchange trades the PIN the user typed for the permanent access token
// pair.
func (a *Authorizer) Exchange(grant *Grant, verifier string) (accessToken, accessSecret string, err error) {
	if grant == nil || grant.requestToken == "" {
		return "", "", fmt.Errorf("grant is not started")
	}
	verifier = strings.TrimSpace(verifier)
	if verifier == "" {
		return "", "", fmt.Errorf("verifier PIN is empty")
	}

	accessToken, accessSecret, err = a.config.AccessToken(grant.requestToken, grant.requestSecret, verifier)
	if err != nil {
		return "", "", fmt.Errorf("failed to exchange verifier for tokens: %w", err)
	}
	return accessToken, accessSecret, nil
}
