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

// Package social publishes rendered charts to the configured social
// account over its OAuth 1.0a API.
//
// # Overview
//
// Two concerns live here. Client signs and sends the two-call publish
// sequence (multipart media upload, then a status update referencing the
// uploaded media). Authorizer drives the interactive PIN grant that
// first-run setup uses to obtain the user's access token pair.
//
// Request signing is delegated to github.com/dghubble/oauth1; this
// package never touches signature construction. Outbound calls share a
// pooled transport with the connect/TLS/header timeouts from
// pkg/defaults and are paced by a golang.org/x/time/rate limiter.
//
// # Publishing
//
//	client, err := social.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//	statusID, err := client.PostWithMedia(ctx, text, cfg.ChartPath)
//
// # Authorization (setup)
//
//	auth := social.NewAuthorizer(consumerKey, consumerSecret)
//	grant, err := auth.Start()
//	// user visits grant.AuthorizeURL, approves, reads the PIN
//	token, secret, err := auth.Exchange(grant, pin)
//
// Endpoints are overridable through options, which the tests use to point
// the client at local httptest servers.
package social
