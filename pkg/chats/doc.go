// Package chats provides a provider-agnostic data model for LLM chat interactions.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/steerlab/pkg/chats/role] — conversation roles (system, user, assistant)
//   - [github.com/germanamz/steerlab/pkg/chats/message] — role/content message values that marshal to the wire shape
//   - [github.com/germanamz/steerlab/pkg/chats/chat] — mutable conversation container
//
// No provider or API code is included — chats is a foundation layer that
// clients can build on.
package chats
