package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type convertible interface {
	~[]byte | ~string
}

var (
	HS256_SECRET    []byte
	DB_CONN         string
	REDIS_CONN      string
	NSQD_TCP_ADDR   string
	NSQLOOKUPD_ADDR string
	APP_PORT        string
	SERVER_ID       string
)

func initEnv[T convertible](dst *T, key string) {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("env: missing %s", key)
	}
	*dst = T(v)
}

func init() {
	// .env is optional, real env vars win
	godotenv.Load()

	initEnv(&HS256_SECRET, "HS256_SECRET")
	initEnv(&DB_CONN, "DB_CONN")
	initEnv(&REDIS_CONN, "REDIS_CONN")
	initEnv(&NSQD_TCP_ADDR, "NSQD_TCP_ADDR")
	initEnv(&NSQLOOKUPD_ADDR, "NSQLOOKUPD_ADDR")
	initEnv(&APP_PORT, "APP_PORT")
	initEnv(&SERVER_ID, "SERVER_ID")
}
