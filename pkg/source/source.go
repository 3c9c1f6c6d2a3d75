// Package source loads spec documents from their configured origin: a
// local file path, an http(s) URL, or a ConfigMap reference of the form
// cm://namespace/name[/key].
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	k8sclient "github.com/MichaelVL/helm2yaml/pkg/k8s/client"
)

// ConfigMapScheme is the URI scheme for Kubernetes ConfigMap sources.
// Format: cm://namespace/configmap-name[/key]
const ConfigMapScheme = "cm://"

// maxDocumentSize bounds remote document reads. Spec documents are small;
// anything larger is a misconfigured URL.
const maxDocumentSize = 4 << 20

// Loader resolves spec-document URIs to their contents. The zero value
// is usable; Kubeconfig selects the cluster for cm:// sources, and the
// Client/HTTPClient fields exist for tests. A Loader is safe for
// concurrent Load calls.
type Loader struct {
	// Kubeconfig is the kubeconfig path used when a cm:// source needs
	// a cluster client and Client is unset.
	Kubeconfig string

	// Client handles cm:// sources. Built lazily from Kubeconfig when
	// nil. Set before the first Load or not at all.
	Client kubernetes.Interface

	// HTTPClient handles http(s) sources. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	clientOnce sync.Once
	clientErr  error
}

// Load returns the document bytes behind uri.
func (l *Loader) Load(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, ConfigMapScheme):
		return l.loadConfigMap(ctx, uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return l.loadHTTP(ctx, uri)
	default:
		data, err := os.ReadFile(uri)
		if err != nil {
			return nil, fmt.Errorf("read spec file %s: %w", uri, err)
		}
		return data, nil
	}
}

func (l *Loader) loadHTTP(ctx context.Context, uri string) ([]byte, error) {
	httpClient := l.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", uri, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch spec from %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch spec from %s: unexpected status %s", uri, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read spec from %s: %w", uri, err)
	}

	slog.Debug("loaded spec over http", "uri", uri, "size_bytes", len(data))
	return data, nil
}

// loadConfigMap reads a document from a ConfigMap. With no explicit key
// the ConfigMap must hold exactly one entry.
func (l *Loader) loadConfigMap(ctx context.Context, uri string) ([]byte, error) {
	namespace, name, key, err := parseConfigMapURI(uri)
	if err != nil {
		return nil, err
	}

	clientset, err := l.client()
	if err != nil {
		return nil, err
	}

	cm, err := clientset.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("configmap %s/%s not found", namespace, name)
		}
		return nil, fmt.Errorf("get configmap %s/%s: %w", namespace, name, err)
	}

	if key == "" {
		if len(cm.Data) != 1 {
			return nil, fmt.Errorf("configmap %s/%s has %d keys, specify one as %snamespace/name/key",
				namespace, name, len(cm.Data), ConfigMapScheme)
		}
		for k := range cm.Data {
			key = k
		}
	}

	data, ok := cm.Data[key]
	if !ok {
		return nil, fmt.Errorf("configmap %s/%s has no key %q", namespace, name, key)
	}

	slog.Debug("loaded spec from configmap", "namespace", namespace, "name", name, "key", key)
	return []byte(data), nil
}

// client returns the cluster client for cm:// sources, building it from
// Kubeconfig exactly once even when Load is called concurrently.
func (l *Loader) client() (kubernetes.Interface, error) {
	l.clientOnce.Do(func() {
		if l.Client != nil {
			return
		}
		clientset, err := k8sclient.Build(l.Kubeconfig)
		if err != nil {
			l.clientErr = err
			return
		}
		l.Client = clientset
	})
	return l.Client, l.clientErr
}

func parseConfigMapURI(uri string) (namespace, name, key string, err error) {
	parts := strings.Split(strings.TrimPrefix(uri, ConfigMapScheme), "/")
	switch len(parts) {
	case 2:
		namespace, name = parts[0], parts[1]
	case 3:
		namespace, name, key = parts[0], parts[1], parts[2]
	default:
		return "", "", "", fmt.Errorf("invalid configmap reference %q, expected %snamespace/name[/key]",
			uri, ConfigMapScheme)
	}
	if namespace == "" || name == "" {
		return "", "", "", fmt.Errorf("invalid configmap reference %q, expected %snamespace/name[/key]",
			uri, ConfigMapScheme)
	}
	return namespace, name, key, nil
}
