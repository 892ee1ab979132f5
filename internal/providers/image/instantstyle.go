package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"stylerelay/internal/domain"
)

// Transfer parameters for the InstantStyle space, matching its documented
// defaults for single-image style transfer.
const (
	styleEndpoint       = "style_transfer"
	styleStrength       = 0.8
	styleGuidanceScale  = 7.5
	styleInferenceSteps = 20
)

// StyleTransferer calls the InstantStyle space with a content image and a
// reference style image. The space returns its result as an inline file
// object, a bare URL string, or a relative path; all three are normalized to
// an absolute URL before returning.
type StyleTransferer struct {
	client spaceClient
}

// NewStyleTransferer wires the adapter to a space client.
func NewStyleTransferer(client spaceClient) *StyleTransferer {
	return &StyleTransferer{client: client}
}

// Transform fulfils the Transformer interface.
func (t *StyleTransferer) Transform(ctx context.Context, content, style []byte) (*Result, error) {
	if t == nil || t.client == nil {
		return nil, errors.New("style transferer not configured")
	}
	if len(content) == 0 {
		return nil, domain.NewError(domain.KindImageDecode, "content image is empty")
	}
	if len(style) == 0 {
		return nil, domain.NewError(domain.KindImageDecode, "style image is empty")
	}

	var contentRef, styleRef any
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		ref, err := t.client.Upload(groupCtx, content, "content.png")
		if err != nil {
			return err
		}
		contentRef = ref
		return nil
	})
	group.Go(func() error {
		ref, err := t.client.Upload(groupCtx, style, "style.jpg")
		if err != nil {
			return err
		}
		styleRef = ref
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	out, err := t.client.Predict(ctx, styleEndpoint, []any{
		contentRef, styleRef, styleStrength, styleGuidanceScale, styleInferenceSteps,
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.NewError(domain.KindUnexpectedResponse, "no image data received")
	}
	imageURL, err := extractImageURL(out[0], t.client)
	if err != nil {
		return nil, err
	}
	return &Result{URL: imageURL}, nil
}

var _ Transformer = (*StyleTransferer)(nil)

// extractImageURL normalizes the three result shapes a space may hand back.
func extractImageURL(entry any, client spaceClient) (string, error) {
	switch v := entry.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", domain.NewError(domain.KindUnexpectedResponse, "empty image reference")
		}
		if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") || strings.HasPrefix(trimmed, "data:") {
			return trimmed, nil
		}
		return client.FileURL(trimmed), nil
	case map[string]any:
		if u, ok := v["url"].(string); ok && strings.TrimSpace(u) != "" {
			return strings.TrimSpace(u), nil
		}
		if p, ok := v["path"].(string); ok && strings.TrimSpace(p) != "" {
			return client.FileURL(strings.TrimSpace(p)), nil
		}
	}
	return "", domain.NewError(domain.KindUnexpectedResponse, "could not extract image url from result").
		WithDetail(fmt.Sprintf("%v", entry))
}
