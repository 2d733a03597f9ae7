package db

import (
	"context"
	"sync"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
)

func connect() {
	var err error
	// TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey
	db, err = gorm.Open(postgres.Open(env.DB_CONN), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}
	db.AutoMigrate(&model.User{})
	db.AutoMigrate(&model.Session{})
	db.AutoMigrate(&model.Edge{})
	db.AutoMigrate(&model.FollowRequest{})
	db.AutoMigrate(&model.Poll{})
	db.AutoMigrate(&model.Response{})
}

func Get() *gorm.DB {
	once.Do(connect)
	return db
}

func GetDB(ctx context.Context) *gorm.DB {
	return Get().WithContext(ctx)
}
