package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/cli/config"
	"github.com/secmon-lab/memoryjar/pkg/repository/jar"
	"github.com/secmon-lab/memoryjar/pkg/usecase"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
	"github.com/secmon-lab/memoryjar/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// jarEnv bundles the flags every jar command shares
type jarEnv struct {
	repo config.Repository
	seed config.Seed
	llm  config.LLM
	jar  config.Jar
}

func (e *jarEnv) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, e.jar.Flags()...)
	flags = append(flags, e.repo.Flags()...)
	flags = append(flags, e.seed.Flags()...)
	flags = append(flags, e.llm.Flags()...)
	return flags
}

// Configure opens the store and builds the use cases. The returned func
// closes the store.
func (e *jarEnv) Configure(ctx context.Context) (*usecase.UseCases, func(), error) {
	settings, err := e.jar.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure jar")
	}

	source, err := e.seed.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure seed source")
	}

	gen, err := e.llm.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure LLM")
	}

	store, err := e.repo.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}
	closer := func() { safe.Close(ctx, store) }

	logging.From(ctx).Debug("jar configured",
		slog.Any("jar", slog.GroupValue(e.jar.LogAttrs()...)),
		slog.Any("repository", slog.GroupValue(e.repo.LogAttrs()...)),
		slog.Any("seed", slog.GroupValue(e.seed.LogAttrs()...)),
		slog.Any("llm", slog.GroupValue(e.llm.LogAttrs()...)),
	)

	repo := jar.New(store,
		jar.WithSeed(source),
		jar.WithLocation(settings.Location),
	)

	opts := []usecase.Option{
		usecase.WithAccessGate(settings.GateOpts...),
	}
	if gen != nil {
		opts = append(opts, usecase.WithTextGenerator(gen))
	}

	return usecase.New(repo, opts...), closer, nil
}
