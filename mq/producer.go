package mq

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/maktse/pollloop-backend/env"
	"github.com/nsqio/go-nsq"
)

var (
	producer *nsq.Producer
	once     sync.Once
)

func GetProducer() *nsq.Producer {
	once.Do(func() {
		p, err := nsq.NewProducer(env.NSQD_TCP_ADDR, nsq.NewConfig())
		if err != nil {
			os.Exit(1)
		}
		producer = p
	})
	return producer
}

func Publish(topic string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return GetProducer().Publish(topic, body)
}

func StopProducer() {
	if producer != nil {
		producer.Stop()
	}
}
