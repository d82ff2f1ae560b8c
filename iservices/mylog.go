package iservices

import "github.com/sirupsen/logrus"

type ILog interface {
	GetLog() *logrus.Logger
}
