// Package webhook delivers signed domain-event payloads to configured
// HTTP endpoints.
//
// The write boundary publishes events through the events broker; a
// Dispatcher subscribes and fans deliveries out per endpoint, signing each
// payload with HMAC-SHA256 bound to a timestamp so receivers can reject
// replays:
//
//	sender := webhook.NewSender()
//	d, err := webhook.NewDispatcher(sender, loadEndpoints)
//	go d.Run(ctx, broker.Subscribe())
//
// Delivery is best-effort with linear-backoff retries. The flag resolver
// itself never triggers webhooks; only committed writes do.
package webhook
