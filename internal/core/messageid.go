package core

import "strconv"

// MessageId identifies a message within an id map; it is a dense, stable
// u32 derived from a project salt and a source key.
type MessageId uint32

// NewMessageId wraps a raw value.
func NewMessageId(value uint32) MessageId { return MessageId(value) }

// Get returns the underlying value.
func (id MessageId) Get() uint32 { return uint32(id) }

func (id MessageId) String() string { return strconv.FormatUint(uint64(id), 10) }
