package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware mencatat semua request, ikut menampilkan request id
// supaya gampang dicocokkan dengan log [REQ] aplikasi.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[HTTP] ${time} ${ip} ${locals:reqid} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
