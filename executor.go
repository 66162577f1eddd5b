package petkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// BatchConfig configures concurrent fetch execution within a batch.
type BatchConfig struct {
	// MaxConcurrent is the maximum number of concurrent API calls.
	// Defaults to 10 if not specified.
	MaxConcurrent int
}

// DefaultBatchConfig returns sensible defaults for batch execution.
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{MaxConcurrent: 10}
}

// runBatch executes every operation in the batch concurrently and returns
// only when all of them have settled. A failed operation is logged and does
// not affect the rest of the batch; callers rely on the return as a barrier
// before starting the next batch.
func (c *Client) runBatch(ctx context.Context, name string, ops []fetchOp) {
	if len(ops) == 0 {
		return
	}

	maxConcurrent := c.batchConfig.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	// Worker pool using semaphore pattern
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for _, op := range ops {
		select {
		case <-ctx.Done():
			c.logWarn(ctx, "batch_aborted",
				slog.String("batch", name),
				slog.String("error", ctx.Err().Error()),
			)
			wg.Wait()
			return
		default:
		}

		wg.Add(1)
		go func(op fetchOp) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if err := c.executeOp(ctx, op); err != nil {
				c.logError(ctx, "fetch_failed",
					slog.String("batch", name),
					slog.Int64("device_id", op.device.DeviceID),
					slog.String("device_type", op.device.DeviceType),
					slog.String("payload", op.payload.String()),
					slog.String("error", err.Error()),
				)
			}
		}(op)
	}

	wg.Wait()
}

// executeOp runs one planned fetch operation: resolve the endpoint, build
// the query, issue the call, normalize and decode the payload, and dispatch
// it into the entity graph. Media operations are delegated to the media
// fetcher collaborator.
func (c *Client) executeOp(ctx context.Context, op fetchOp) error {
	if op.payload == payloadMedia {
		return c.fetchMedia(ctx, op.device)
	}

	spec, ok := c.payloads[op.payload]
	if !ok {
		return fmt.Errorf("petkit: no payload descriptor for %s", op.payload)
	}

	endpoint := spec.endpoint(op.device.DeviceType)
	if endpoint == "" {
		// Generation-specific category with no endpoint for this model.
		c.logDebug(ctx, "endpoint_not_available",
			slog.String("device_type", op.device.DeviceType),
			slog.String("payload", op.payload.String()),
		)
		return nil
	}

	existing, _ := c.Entity(op.device.DeviceID)
	params := spec.params(c, op.device, existing)

	raw, err := c.postResult(ctx, op.device.DeviceType+"/"+endpoint, params)
	if err != nil {
		return err
	}

	payload, err := spec.decode(raw)
	if err != nil {
		return err
	}

	c.dispatch(ctx, spec.category, op.device, payload)
	return nil
}

// fetchMedia asks the media fetcher collaborator for the entity's cloud
// media and attaches the result. Without a configured fetcher the operation
// is skipped.
func (c *Client) fetchMedia(ctx context.Context, device *Device) error {
	if c.media == nil {
		c.logDebug(ctx, "media_fetcher_not_configured",
			slog.Int64("device_id", device.DeviceID),
		)
		return nil
	}

	entity, ok := c.Entity(device.DeviceID)
	if !ok {
		return fmt.Errorf("%w: device %d", ErrDeviceNotFound, device.DeviceID)
	}

	medias, err := c.media.FetchMedia(ctx, entity)
	if err != nil {
		return err
	}

	c.entityMu.Lock()
	defer c.entityMu.Unlock()
	switch e := entity.(type) {
	case *Feeder:
		e.Medias = medias
	case *Litter:
		e.Medias = medias
	default:
		c.logWarn(ctx, "media_drop_wrong_variant",
			slog.Int64("device_id", device.DeviceID),
			slog.String("entity_kind", string(entity.EntityKind())),
		)
	}
	return nil
}

// normalizeResult reduces the decoded envelope result to either a JSON
// array or a JSON object. An object carrying a nested "list" array is
// unwrapped to that array — a known server inconsistency for one litter box
// generation. Any other shape is a normalization error.
func normalizeResult(raw []byte) (json.RawMessage, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("%w: empty result", ErrInvalidResponseFormat)
	}

	switch trimmed[0] {
	case '[':
		return trimmed, true, nil
	case '{':
		var wrapper struct {
			List json.RawMessage `json:"list"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
		}
		if inner := bytes.TrimSpace(wrapper.List); len(inner) > 0 && inner[0] == '[' {
			return inner, true, nil
		}
		return trimmed, false, nil
	default:
		return nil, false, fmt.Errorf("%w: unexpected payload shape (body: %s)", ErrInvalidResponseFormat, truncatePreview(trimmed))
	}
}

// decodeEntityPayload decodes a main-data or live payload, which the API
// returns as a single object (tolerating a one-element list wrapper).
func decodeEntityPayload[T any](raw []byte) (any, error) {
	body, isList, err := normalizeResult(raw)
	if err != nil {
		return nil, err
	}

	if isList {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to parse payload list: %w (body: %s)", err, truncatePreview(body))
		}
		if len(items) != 1 {
			return nil, fmt.Errorf("%w: expected a single object, got %d elements", ErrInvalidResponseFormat, len(items))
		}
		return &items[0], nil
	}

	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w (body: %s)", err, truncatePreview(body))
	}
	return &item, nil
}

// decodeRecordsPayload decodes a record/stat payload into a typed slice.
// A bare object becomes a one-element slice.
func decodeRecordsPayload[T any](raw []byte) (any, error) {
	body, isList, err := normalizeResult(raw)
	if err != nil {
		return nil, err
	}

	if isList {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to parse record list: %w (body: %s)", err, truncatePreview(body))
		}
		return items, nil
	}

	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w (body: %s)", err, truncatePreview(body))
	}
	return []T{item}, nil
}
