package event

import (
	"context"
	"strconv"
	"vex-tracker/internal/api"
	"vex-tracker/internal/domain"
)

// Resolve looks an event up by a caller-supplied identifier: a string is
// treated as a SKU, an integer as the internal id. Any other type is rejected
// with an InvalidArgumentError rather than guessed at.
func Resolve(ctx context.Context, client *api.Client, identifier any) (*Handle, error) {
	switch v := identifier.(type) {
	case string:
		return ResolveSKU(ctx, client, v)
	case int:
		return ResolveID(ctx, client, v)
	case int32:
		return ResolveID(ctx, client, int(v))
	case int64:
		return ResolveID(ctx, client, int(v))
	default:
		return nil, &InvalidArgumentError{Value: identifier}
	}
}

// ResolveSKU searches the events endpoint by SKU and wraps the first result.
// Zero results is a NotFoundError carrying the sku; transport failures
// propagate unchanged. No retries.
func ResolveSKU(ctx context.Context, client *api.Client, sku string) (*Handle, error) {
	results, err := client.Events(ctx, domain.EventFilter{SKU: []string{sku}})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &NotFoundError{Identifier: sku}
	}
	// First-in-response wins; the API does not return duplicates for a sku,
	// and ties are not otherwise broken.
	return NewHandle(client, results[0]), nil
}

// ResolveID searches the events endpoint by internal id, with the same
// contract as ResolveSKU.
func ResolveID(ctx context.Context, client *api.Client, id int) (*Handle, error) {
	results, err := client.Events(ctx, domain.EventFilter{ID: []int{id}})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &NotFoundError{Identifier: strconv.Itoa(id)}
	}
	return NewHandle(client, results[0]), nil
}
