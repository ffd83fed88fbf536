// Package inject provides doubles whose behavior is swapped in per test through function fields.
package inject

import (
	"context"

	"go.viam.com/accelcv/components/board"
)

// I2C is an injected I2C.
type I2C struct {
	board.I2C
	OpenHandleFunc func(addr byte) (board.I2CHandle, error)
}

// OpenHandle calls the injected OpenHandle or the real version.
func (s *I2C) OpenHandle(addr byte) (board.I2CHandle, error) {
	if s.OpenHandleFunc == nil {
		return s.I2C.OpenHandle(addr)
	}
	return s.OpenHandleFunc(addr)
}

// I2CHandle is an injected I2CHandle.
type I2CHandle struct {
	board.I2CHandle
	ReadByteDataFunc   func(ctx context.Context, register byte) (byte, error)
	WriteByteDataFunc  func(ctx context.Context, register, data byte) error
	ReadBlockDataFunc  func(ctx context.Context, register byte, numBytes uint8) ([]byte, error)
	WriteBlockDataFunc func(ctx context.Context, register byte, data []byte) error
	CloseFunc          func() error
}

// ReadByteData calls the injected ReadByteData or the real version.
func (handle *I2CHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	if handle.ReadByteDataFunc == nil {
		return handle.I2CHandle.ReadByteData(ctx, register)
	}
	return handle.ReadByteDataFunc(ctx, register)
}

// WriteByteData calls the injected WriteByteData or the real version.
func (handle *I2CHandle) WriteByteData(ctx context.Context, register, data byte) error {
	if handle.WriteByteDataFunc == nil {
		return handle.I2CHandle.WriteByteData(ctx, register, data)
	}
	return handle.WriteByteDataFunc(ctx, register, data)
}

// ReadBlockData calls the injected ReadBlockData or the real version.
func (handle *I2CHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	if handle.ReadBlockDataFunc == nil {
		return handle.I2CHandle.ReadBlockData(ctx, register, numBytes)
	}
	return handle.ReadBlockDataFunc(ctx, register, numBytes)
}

// WriteBlockData calls the injected WriteBlockData or the real version.
func (handle *I2CHandle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	if handle.WriteBlockDataFunc == nil {
		return handle.I2CHandle.WriteBlockData(ctx, register, data)
	}
	return handle.WriteBlockDataFunc(ctx, register, data)
}

// Close calls the injected Close or the real version.
func (handle *I2CHandle) Close() error {
	if handle.CloseFunc == nil {
		return handle.I2CHandle.Close()
	}
	return handle.CloseFunc()
}
