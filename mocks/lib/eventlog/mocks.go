// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.// Code generated by MockGen. DO NOT EDIT.
// Source: github.com/swimkv/swimkv/lib/eventlog (interfaces: Logger)

// Package mockeventlog is a generated GoMock package.
package mockeventlog

import (
	reflect "reflect"

	core "github.com/swimkv/swimkv/core"
	eventlog "github.com/swimkv/swimkv/lib/eventlog"

	gomock "github.com/golang/mock/gomock"
)

// MockLogger is a mock of Logger interface
type MockLogger struct {
	ctrl     *gomock.Controller
	recorder *MockLoggerMockRecorder
}

// MockLoggerMockRecorder is the mock recorder for MockLogger
type MockLoggerMockRecorder struct {
	mock *MockLogger
}

// NewMockLogger creates a new mock instance
func NewMockLogger(ctrl *gomock.Controller) *MockLogger {
	mock := &MockLogger{ctrl: ctrl}
	mock.recorder = &MockLoggerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockLogger) EXPECT() *MockLoggerMockRecorder {
	return m.recorder
}

// NodeAdd mocks base method
func (m *MockLogger) NodeAdd(arg0, arg1 core.Address) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "NodeAdd", arg0, arg1)
}

// NodeAdd indicates an expected call of NodeAdd
func (mr *MockLoggerMockRecorder) NodeAdd(arg0, arg1 interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NodeAdd", reflect.TypeOf((*MockLogger)(nil).NodeAdd), arg0, arg1)
}

// NodeRemove mocks base method
func (m *MockLogger) NodeRemove(arg0, arg1 core.Address) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "NodeRemove", arg0, arg1)
}

// NodeRemove indicates an expected call of NodeRemove
func (mr *MockLoggerMockRecorder) NodeRemove(arg0, arg1 interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NodeRemove", reflect.TypeOf((*MockLogger)(nil).NodeRemove), arg0, arg1)
}

// OpSuccess mocks base method
func (m *MockLogger) OpSuccess(arg0 core.Address, arg1 eventlog.Op, arg2 string, arg3 bool) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "OpSuccess", arg0, arg1, arg2, arg3)
}

// OpSuccess indicates an expected call of OpSuccess
func (mr *MockLoggerMockRecorder) OpSuccess(arg0, arg1, arg2, arg3 interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpSuccess", reflect.TypeOf((*MockLogger)(nil).OpSuccess), arg0, arg1, arg2, arg3)
}

// OpFailure mocks base method
func (m *MockLogger) OpFailure(arg0 core.Address, arg1 eventlog.Op, arg2 string, arg3 bool) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "OpFailure", arg0, arg1, arg2, arg3)
}

// OpFailure indicates an expected call of OpFailure
func (mr *MockLoggerMockRecorder) OpFailure(arg0, arg1, arg2, arg3 interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpFailure", reflect.TypeOf((*MockLogger)(nil).OpFailure), arg0, arg1, arg2, arg3)
}
