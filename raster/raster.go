package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
)

var (
	ErrEmptyMarkup    = errors.New("raster: empty SVG markup")
	ErrInvalidSize    = errors.New("raster: target size must be positive")
	ErrUnknownDecoder = errors.New("raster: unknown decoder")
)

// Decoder 将 SVG 标记栅格化为 width×height 的图像。
// 结果必须恰好是目标尺寸：viewBox 被拉伸到整个画面，不保留纵横比。
type Decoder interface {
	Decode(ctx context.Context, svg []byte, width, height int) (image.Image, error)
}

// Factory 创建一个 Decoder 实例。
type Factory func() Decoder

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register 在 init 中登记后端；同名后注册者覆盖先注册者。
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// Open 按名称创建 Decoder。
func Open(name string) (Decoder, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownDecoder, name, Names())
	}
	return f(), nil
}

// Names 返回已登记的后端名称（排序后）。
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckArgs 是各后端共用的入参检查。
func CheckArgs(ctx context.Context, svg []byte, width, height int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(svg) == 0 {
		return ErrEmptyMarkup
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, svg []byte, width, height int) (image.Image, error)

// Decode calls f.
func (f DecoderFunc) Decode(ctx context.Context, svg []byte, width, height int) (image.Image, error) {
	return f(ctx, svg, width, height)
}
