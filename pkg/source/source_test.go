package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apps: {}\n"), 0o644))

	data, err := (&Loader{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "apps: {}\n", string(data))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("helmRepos: {}\n"))
	}))
	defer srv.Close()

	data, err := (&Loader{HTTPClient: srv.Client()}).Load(context.Background(), srv.URL+"/spec.yaml")
	require.NoError(t, err)
	assert.Equal(t, "helmRepos: {}\n", string(data))
}

func TestLoadHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := (&Loader{HTTPClient: srv.Client()}).Load(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "unexpected status")
}

func TestLoadConfigMap(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Namespace: "gitops", Name: "spec"},
		Data:       map[string]string{"spec.yaml": "apps: {}\n"},
	}
	loader := &Loader{Client: fake.NewClientset(cm)}

	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr string
	}{
		{
			name: "explicit key",
			uri:  "cm://gitops/spec/spec.yaml",
			want: "apps: {}\n",
		},
		{
			name: "single key inferred",
			uri:  "cm://gitops/spec",
			want: "apps: {}\n",
		},
		{
			name:    "missing key",
			uri:     "cm://gitops/spec/other.yaml",
			wantErr: "no key",
		},
		{
			name:    "missing configmap",
			uri:     "cm://gitops/absent",
			wantErr: "not found",
		},
		{
			name:    "malformed reference",
			uri:     "cm://gitops",
			wantErr: "invalid configmap reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := loader.Load(context.Background(), tt.uri)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestLoadConfigMapAmbiguousKey(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Namespace: "gitops", Name: "spec"},
		Data:       map[string]string{"a.yaml": "a", "b.yaml": "b"},
	}
	loader := &Loader{Client: fake.NewClientset(cm)}

	_, err := loader.Load(context.Background(), "cm://gitops/spec")
	assert.ErrorContains(t, err, "2 keys")
}

// unreachableKubeconfig writes a syntactically valid kubeconfig pointing
// at a closed port, so client construction succeeds without a cluster.
func unreachableKubeconfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kubeconfig")
	cfg := `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:1
  name: test
contexts:
- context:
    cluster: test
    user: test
  name: test
current-context: test
users:
- name: test
  user: {}
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func TestLoadConfigMapConcurrent(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Namespace: "gitops", Name: "spec"},
		Data:       map[string]string{"spec.yaml": "apps: {}\n"},
	}
	loader := &Loader{Client: fake.NewClientset(cm)}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := loader.Load(context.Background(), "cm://gitops/spec")
			assert.NoError(t, err)
			assert.Equal(t, "apps: {}\n", string(data))
		}()
	}
	wg.Wait()
}

func TestLoadConfigMapConcurrentLazyClient(t *testing.T) {
	// Several goroutines sharing one Loader, as the CLI does with
	// multiple -f inputs. The client must be built exactly once and
	// without a data race; the lookups themselves fail since nothing
	// listens at the kubeconfig's server address.
	loader := &Loader{Kubeconfig: unreachableKubeconfig(t)}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loader.Load(context.Background(), "cm://gitops/spec")
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	require.NotNil(t, loader.Client)
}
