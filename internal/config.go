package internal

import (
	"fmt"
	"time"
)

type Config struct {
	ServerURL         string        `env:"CHAT_SERVER_URL,default=ws://localhost:8080/ws"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	CommandTimeout    time.Duration `env:"COMMAND_TIMEOUT,default=5s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	CensoredWords     []string      `env:"CENSORED_WORDS"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	MaxImageWidth     uint          `env:"MAX_IMAGE_WIDTH,default=1024"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
