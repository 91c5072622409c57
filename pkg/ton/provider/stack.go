package provider

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// singleItem returns the only entry of a get-method stack.
func singleItem(res *ton.ExecutionResult) (any, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: empty result", ErrDecode)
	}
	stack := res.AsTuple()
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: expected 1 stack entry, got %d", ErrDecode, len(stack))
	}
	return stack[0], nil
}

// AddressFrom decodes a single address entry. A nil address and no error is
// returned for addr_none.
func AddressFrom(res *ton.ExecutionResult, err error) (*address.Address, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to run get method: %w", err)
	}
	item, err := singleItem(res)
	if err != nil {
		return nil, err
	}

	var s *cell.Slice
	switch v := item.(type) {
	case *cell.Slice:
		// the caller may share the result, parse a copy
		s = v.Copy()
	case *cell.Cell:
		s = v.BeginParse()
	default:
		return nil, fmt.Errorf("%w: expected slice, got %T", ErrDecode, item)
	}

	addr, err := s.LoadAddr()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load address: %w", ErrDecode, err)
	}
	if addr == nil || addr.Type() == address.NoneAddress {
		return nil, nil
	}
	return addr, nil
}

// BigIntFrom decodes a single integer entry.
func BigIntFrom(res *ton.ExecutionResult, err error) (*big.Int, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to run get method: %w", err)
	}
	item, err := singleItem(res)
	if err != nil {
		return nil, err
	}
	v, ok := item.(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: expected integer, got %T", ErrDecode, item)
	}
	return new(big.Int).Set(v), nil
}

// Uint64From decodes a single integer entry that must fit into uint64.
func Uint64From(res *ton.ExecutionResult, err error) (uint64, error) {
	v, err := BigIntFrom(res, err)
	if err != nil {
		return 0, err
	}
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: value %s does not fit into uint64", ErrDecode, v)
	}
	return v.Uint64(), nil
}
