// Package setup implements the interactive flows that create and edit
// entries, independent of any front end.
//
// A Flow moves through these steps:
//
//	school ─> location ─> mode ─┬─> period   (static)  ─> done
//	                            └─> windows  (dynamic) ─> done
//
// Every method returns the Form to render next. A failed network call keeps
// the flow on the same step with ErrUnknown; Retry refetches. Creating an
// entry whose unique id is already stored ends the flow with StepAborted
// and ErrAlreadyConfigured.
//
// Dynamic windows are prefilled from today's periods using DefaultWindow.
// A submission is accepted when at least one window has a start strictly
// before its end; every submitted window is stored, in period order.
package setup
