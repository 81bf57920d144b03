// Package compiler drives a translation from a source descriptor to a
// backend module:
//
//	filename check -> frontend (source to IR) -> lowering -> assembly -> backend
//
// Frontends and the backend are external collaborators behind the Frontend
// and Backend interfaces. The built-in IRDocumentFrontend reads IR documents
// written as JSON or YAML; other languages need a registered frontend.
//
// Every failure is returned as an *Error naming the stage that failed, so
// callers can discriminate with StageOf or IsStage without inspecting the
// wrapped cause. Translations can optionally be recorded in a store.Store.
package compiler
