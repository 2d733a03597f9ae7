package mq

import (
	"encoding/json"
	"log"

	"github.com/maktse/pollloop-backend/env"
	"github.com/nsqio/go-nsq"
)

// StartRelationshipConsumer subscribes this instance to the relationship
// topic. Each instance uses its own channel so every one sees every event.
func StartRelationshipConsumer(logger *log.Logger, handle func(RelationshipEvent)) (*nsq.Consumer, error) {
	consumer, err := nsq.NewConsumer(TopicRelationships, env.SERVER_ID, nsq.NewConfig())
	if err != nil {
		return nil, err
	}
	consumer.AddHandler(nsq.HandlerFunc(func(message *nsq.Message) error {
		var evt RelationshipEvent
		if err := json.Unmarshal(message.Body, &evt); err != nil {
			logger.Println(err)
			return nil
		}
		handle(evt)
		return nil
	}))
	if err := consumer.ConnectToNSQLookupd(env.NSQLOOKUPD_ADDR); err != nil {
		consumer.Stop()
		return nil, err
	}
	return consumer, nil
}
