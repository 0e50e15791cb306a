package postgres

import (
	"context"
	"testing"
	"time"

	"zeckit-faucet/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewPool_InvalidDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "u",
		DBName:  "d",
		SSLMode: "not-a-mode",
	}

	_, err := NewPool(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewPool_Unreachable(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "u",
		Password: "p",
		DBName:   "d",
		SSLMode:  "disable",
		MaxConns: 1,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewPool(ctx, cfg, zerolog.Nop())
	assert.Error(t, err)
}
