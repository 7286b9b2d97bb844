//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/fluentcli/internal/adapter/rest"
	"github.com/eslsoft/fluentcli/internal/gateway"
	"github.com/eslsoft/fluentcli/internal/infrastructure/config"
	"github.com/eslsoft/fluentcli/internal/infrastructure/logging"
)

var configSet = wire.NewSet(
	config.Load,
)

var infrastructureSet = wire.NewSet(
	logging.NewLogger,
	newCredentialStore,
)

var gatewaySet = wire.NewSet(
	newRESTClient,
	wire.Bind(new(gateway.ConversationGateway), new(*rest.Client)),
	wire.Bind(new(gateway.VocabularyGateway), new(*rest.Client)),
	wire.Bind(new(gateway.QuizGateway), new(*rest.Client)),
	wire.Bind(new(gateway.AuthGateway), new(*rest.Client)),
)

var speechSet = wire.NewSet(
	newSpeaker,
	newRecorder,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		infrastructureSet,
		gatewaySet,
		speechSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
