package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/fluentcli/internal/adapter/speech"
	"github.com/eslsoft/fluentcli/internal/gateway"
	"github.com/eslsoft/fluentcli/internal/infrastructure/config"
	"github.com/eslsoft/fluentcli/internal/infrastructure/credentials"
	"github.com/eslsoft/fluentcli/internal/usecase"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Credentials *credentials.Store

	Conversation gateway.ConversationGateway
	Vocabulary   gateway.VocabularyGateway
	Quiz         gateway.QuizGateway
	Auth         gateway.AuthGateway

	Speaker  usecase.Speaker
	Recorder speech.Recorder
}
