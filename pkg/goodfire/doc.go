// Package goodfire is a client for the Goodfire hosted-model inference API.
//
// It covers the four capabilities the playground exercises:
//   - streamed chat completions ([Client.CreateStream])
//   - top-k token logits ([Client.Logits])
//   - feature inspection and search ([Client.Inspect], [Client.Search])
//   - steering-edit generation ([Client.AutoSteer])
//
// All operations are keyed by a [Variant]: a base model plus a set of
// steering edits. Variant is a value type — edit operations return new
// values rather than mutating in place.
package goodfire
