/*
Package comb provides the allocator substrate that sits beside the queen
ECS. The queen package itself does not import comb: its columns, command
buffer and deserializer use Go-managed memory. Every allocator here satisfies the Allocator
contract: Allocate never falls back to a global heap when its backing
arena is exhausted — it returns a zero Address and false instead.

Because Go is garbage collected, "pointer" from the original specification
is realized as Address, an opaque handle into an allocator-owned byte
arena rather than a raw pointer; Address.Bytes() exposes the addressed
region as a slice for the caller to read/write through.
*/
package comb
