package mylog

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLevel(t *testing.T) {
	a := assert.New(t)
	a.Equal(logrus.DebugLevel, convertLevel(DebugLevel))
	a.Equal(logrus.TraceLevel, convertLevel(TraceLevel))
	a.Equal(logrus.ErrorLevel, convertLevel(ErrorLevel))
	a.Equal(logrus.InfoLevel, convertLevel("nonsense"))
}

func TestInitWithFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "mylog")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	l, err := NewMyLog(dir, WarnLevel, 1)
	require.NoError(t, err)
	a := assert.New(t)
	a.Equal(logrus.WarnLevel, l.GetLog().Level)

	l.GetLog().SetOutput(emptyWriter{})
	l.GetLog().Warn("to the file")

	_, err = os.Stat(filepath.Join(dir, sLogFileName))
	a.NoError(err, "link to the current log file should exist")
}

func TestDiscard(t *testing.T) {
	a := assert.New(t)
	l := Discard()
	l.Error("nobody sees me")
	a.NotNil(OrDiscard(nil))
	a.Equal(l, OrDiscard(l))
}
