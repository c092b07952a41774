// Package types provides the inbound and outbound JSON shapes of the two wire formats
// the bridge speaks: Anthropic Messages and OpenAI Chat Completions.
//
// These are hand-written server-side types rather than SDK types:
//
//  1. SERVER-SIDE vs CLIENT-SIDE: Both vendor SDKs are designed for making outbound calls.
//     The bridge decodes inbound requests and encodes responses that those SDKs then parse.
//
//  2. SUBSET: Only the fields the bridge reads or writes are modelled. Unknown request
//     fields (tools, temperature, metadata, ...) are accepted and ignored.
//
//  3. STANDARD JSON: All types work with encoding/json directly. Content unions are
//     handled by Content.UnmarshalJSON.
package types
