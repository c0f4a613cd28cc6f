package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacedClient spaces backend calls with a token bucket so background
// suggestion passes cannot burn through a provider quota.
type pacedClient struct {
	next    Client
	limiter *rate.Limiter
}

// Paced wraps client so that at most perMinute requests start per minute.
// A non-positive perMinute returns client unchanged.
func Paced(client Client, perMinute int) Client {
	if client == nil || perMinute <= 0 {
		return client
	}
	every := time.Minute / time.Duration(perMinute)
	return &pacedClient{
		next:    client,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

func (p *pacedClient) Name() string {
	return p.next.Name()
}

func (p *pacedClient) Generate(ctx context.Context, prompt string, parts []Part) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.next.Generate(ctx, prompt, parts)
}

func (p *pacedClient) Rewrite(ctx context.Context, text, instruction string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.next.Rewrite(ctx, text, instruction)
}

func (p *pacedClient) Suggest(ctx context.Context, document string) ([]Edit, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.next.Suggest(ctx, document)
}
