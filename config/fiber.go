package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func GetFiberListenAddress() string {
	return fmt.Sprintf("%s:%s", GetFiberHttpHost(), GetFiberHttpPort())
}

func GetFiberConfig() fiber.Config {
	return fiber.Config{
		DisableStartupMessage: false,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		Prefork:               false,
		ServerHeader:          "SIMKA",
		AppName:               GetAppName(),
		ReadTimeout:           time.Second * 60,
		CaseSensitive:         true,
		BodyLimit:             4 * 1024 * 1024,
	}
}

func GetAppName() string {
	v := os.Getenv("APP_NAME")
	if v == "" {
		return "SIMKA"
	}

	return v
}

// GetAssociationName is printed on the letterhead of every generated document.
func GetAssociationName() string {
	v := os.Getenv("ASSOCIATION_NAME")
	if v == "" {
		return "Persatuan Guru Profesional Indonesia"
	}

	return v
}

func GetAssociationAddress() string {
	v := os.Getenv("ASSOCIATION_ADDRESS")
	if v == "" {
		return "Jl. Pendidikan No. 1, Jakarta"
	}

	return v
}

func GetChairmanName() string {
	v := os.Getenv("CHAIRMAN_NAME")
	if v == "" {
		return "Ketua Umum"
	}

	return v
}

func GetFiberHttpHost() string {
	env := os.Getenv("HTTP_HOST")
	if env != "" {
		return env
	}
	return "0.0.0.0"
}

func GetFiberHttpPort() string {
	env := os.Getenv("HTTP_PORT")
	if env != "" {
		return env
	}
	return "8000"
}
