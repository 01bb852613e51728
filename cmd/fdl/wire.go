//go:build wireinject

package main

import (
	"github.com/google/wire"
)

func BuildEnv(args Args) (*Env, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideStore,
		ProvideRecorder,
		ProvideCounter,
		ProvideClipboard,
		wire.Struct(new(Env), "*"),
	)
	return nil, nil, nil
}
