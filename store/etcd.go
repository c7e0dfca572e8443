package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdOptions configures the etcd connection.
type EtcdOptions struct {
	// Endpoints lists etcd cluster members (e.g., "localhost:2379").
	Endpoints []string

	// Namespace prefixes every key written by the store. Defaults to
	// "bridge".
	Namespace string

	// TLS configuration for secure connections
	TLS *tls.Config

	// DialTimeout is the maximum time to wait for connection establishment.
	// Defaults to 5s.
	DialTimeout time.Duration
}

// EtcdStore implements Store on an etcd cluster. Descriptor sets live under
// "/<ns>/schema/<name>", so List is a single prefix scan.
//
// All methods are safe for concurrent use.
type EtcdStore struct {
	client    *clientv3.Client
	namespace string
}

// NewEtcdStore creates an etcd-backed store and verifies connectivity with a
// health check.
func NewEtcdStore(opts EtcdOptions) (*EtcdStore, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "bridge"
	}
	dialTimeout := opts.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: dialTimeout,
		TLS:         opts.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := cli.Get(ctx, "health-check"); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &EtcdStore{client: cli, namespace: namespace}, nil
}

func (s *EtcdStore) prefix() string {
	return fmt.Sprintf("/%s/schema/", s.namespace)
}

func (s *EtcdStore) key(name string) string {
	return s.prefix() + name
}

// Put stores data under name.
func (s *EtcdStore) Put(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("descriptor set name cannot be empty")
	}
	if _, err := s.client.Put(ctx, s.key(name), string(data)); err != nil {
		return fmt.Errorf("failed to store descriptor set %q: %w", name, err)
	}
	return nil
}

// Get returns the blob stored under name.
func (s *EtcdStore) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.Get(ctx, s.key(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get descriptor set %q: %w", name, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return resp.Kvs[0].Value, nil
}

// List returns all stored names, in key order.
func (s *EtcdStore) List(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, s.prefix(),
		clientv3.WithPrefix(), clientv3.WithKeysOnly(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("failed to list descriptor sets: %w", err)
	}
	names := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		names = append(names, strings.TrimPrefix(string(kv.Key), s.prefix()))
	}
	return names, nil
}

// Delete removes the blob stored under name.
func (s *EtcdStore) Delete(ctx context.Context, name string) error {
	if _, err := s.client.Delete(ctx, s.key(name)); err != nil {
		return fmt.Errorf("failed to delete descriptor set %q: %w", name, err)
	}
	return nil
}

// Close closes the etcd connection.
func (s *EtcdStore) Close() error {
	return s.client.Close()
}
