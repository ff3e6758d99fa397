/*
 * CloudFlare - provider tests against recorded API responses.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"node-dns-drivers/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/external-dns/endpoint"
	"sigs.k8s.io/external-dns/plan"
)

// fixtureDir contains the recorded CloudFlare responses.
var fixtureDir = filepath.Join("..", "dns", "cloudflare", "testdata")

// newCloudFlareProvider returns a provider bound to a server replaying the
// recorded responses. The received queries are appended to queries.
func newCloudFlareProvider(t *testing.T, dryRun bool, queries *[]url.Values) *Provider {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		*queries = append(*queries, q)
		content, err := os.ReadFile(filepath.Join(fixtureDir, q.Get("a")+".json"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(content)
	}))
	t.Cleanup(srv.Close)

	p, err := NewProvider(&Configuration{
		Email:      "user@example.com",
		APIKey:     "my_api_key",
		Endpoint:   srv.URL,
		DryRun:     dryRun,
		DefaultTTL: 1,
	})
	require.NoError(t, err)
	return p
}

func Test_NewProvider_configurationError(t *testing.T) {
	_, err := NewProvider(&Configuration{APIKey: "my_api_key"})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func Test_NewProvider_Records(t *testing.T) {
	var queries []url.Values
	p := newCloudFlareProvider(t, false, &queries)

	endpoints, err := p.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, endpoints, 13)

	byKey := map[string]*endpoint.Endpoint{}
	for _, ep := range endpoints {
		byKey[ep.DNSName+" "+ep.RecordType] = ep
	}
	assert.Equal(t, endpoint.Targets{"192.30.252.153", "192.30.252.154"}, byKey["example.com A"].Targets)
	assert.Equal(t, endpoint.Targets{"verify.bing.com"}, byKey["yesyes.example.com CNAME"].Targets)
	assert.Len(t, byKey["example.com MX"].Targets, 5)
	assert.Contains(t, byKey["example.com MX"].Targets, "1 aspmx.l.google.com")
	assert.Equal(t, endpoint.TTL(300), byKey["example.com MX"].RecordTTL)
	assert.False(t, byKey["example.com A"].RecordTTL.IsConfigured())

	require.Len(t, queries, 2)
	assert.Equal(t, "zone_load_multi", queries[0].Get("a"))
	assert.Equal(t, "rec_load_all", queries[1].Get("a"))
	assert.Equal(t, "example.com", queries[1].Get("z"))
	assert.Equal(t, "my_api_key", queries[1].Get("tkn"))
	assert.Equal(t, "user@example.com", queries[1].Get("email"))
}

func Test_NewProvider_ApplyChanges(t *testing.T) {
	changes := &plan.Changes{
		Create: []*endpoint.Endpoint{
			endpoint.NewEndpoint("test5.example.com", "A", "127.0.0.3"),
		},
		Delete: []*endpoint.Endpoint{
			endpoint.NewEndpoint("yesyes.example.com", "CNAME", "verify.bing.com"),
		},
	}

	t.Run("applied", func(t *testing.T) {
		var queries []url.Values
		p := newCloudFlareProvider(t, false, &queries)

		require.NoError(t, p.ApplyChanges(context.Background(), changes))
		require.Len(t, queries, 4)

		del := queries[2]
		assert.Equal(t, "rec_delete", del.Get("a"))
		assert.Equal(t, "364982413", del.Get("id"))

		create := queries[3]
		assert.Equal(t, "rec_new", create.Get("a"))
		assert.Equal(t, "test5", create.Get("name"))
		assert.Equal(t, "A", create.Get("type"))
		assert.Equal(t, "127.0.0.3", create.Get("content"))
		assert.Equal(t, "1", create.Get("ttl"))
	})

	t.Run("dry run", func(t *testing.T) {
		var queries []url.Values
		p := newCloudFlareProvider(t, true, &queries)

		require.NoError(t, p.ApplyChanges(context.Background(), changes))
		assert.Len(t, queries, 2)
	})
}
