package modals

import (
	"os"
	"testing"

	"github.com/zhubert/agentdeck/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)

	ModalWidth = 80
	ModalWidthWide = 100
	ModalInputWidth = 72
	ModalInputCharLimit = 512
	HelpModalMaxVisible = 20

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}
