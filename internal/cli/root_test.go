package cli

import (
	"testing"

	"github.com/julianstephens/habitcoach/internal/constants"
)

func TestConfiguredSinksDoNotDialTelegram(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	t.Setenv(constants.EnvTelegramToken, "123:abc")
	ctx.Config.Notify.Tray = true
	ctx.Config.Notify.Telegram.ChatID = 42

	sinks, err := ctx.Sinks()
	if err != nil {
		t.Fatalf("Sinks() error = %v, want nil without contacting Telegram", err)
	}
	if len(sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(sinks))
	}
	if sinks[0].Name() != "tray" || sinks[1].Name() != "telegram" {
		t.Errorf("sinks = [%s %s], want [tray telegram]", sinks[0].Name(), sinks[1].Name())
	}
}

func TestConfiguredSinksNoneEnabled(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	ctx.Config.Notify.Tray = false
	ctx.Config.Notify.Telegram.ChatID = 0

	if _, err := ctx.Sinks(); err == nil {
		t.Error("Sinks() with nothing enabled should fail")
	}
}
