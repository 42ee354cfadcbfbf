package core

import "errors"

var (
	ErrPriceFetchFailed = errors.New("price fetch failed")
	ErrEmptySymbol      = errors.New("empty symbol")
	ErrInvalidSymbol    = errors.New("invalid symbol")
)
