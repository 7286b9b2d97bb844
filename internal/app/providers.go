package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/fluentcli/internal/adapter/rest"
	"github.com/eslsoft/fluentcli/internal/adapter/speech"
	"github.com/eslsoft/fluentcli/internal/infrastructure/config"
	"github.com/eslsoft/fluentcli/internal/infrastructure/credentials"
	"github.com/eslsoft/fluentcli/internal/usecase"
)

func newCredentialStore(cfg *config.Config) *credentials.Store {
	return credentials.NewStore(cfg.Auth.TokenFile)
}

func newRESTClient(cfg *config.Config, store *credentials.Store, logger *logrus.Logger) *rest.Client {
	return rest.NewClient(rest.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Tokens:  store,
		Logger:  logger,
	})
}

func newSpeaker(cfg *config.Config, logger *logrus.Logger) usecase.Speaker {
	return speech.NewSpeaker(cfg.Speech.PlayCommand, logger)
}

func newRecorder(cfg *config.Config, logger *logrus.Logger) speech.Recorder {
	return speech.NewRecorder(cfg.Speech.RecordCommand, logger)
}
