// Package authflow implements the sign-in / register / verify dialog as a
// state machine.
//
// The core is the pure function Reduce, which maps a State and an Event to
// the next State plus a list of Effects. Controller runs Reduce behind a
// mutex, performs the effects (API calls, countdown ticker, delayed
// close) and publishes the dialog outcome on a channel. Hosts feed user
// input into Controller.Dispatch and render Controller.State.
//
// Results of asynchronous work carry the Epoch they were started in.
// Every reset of the dialog bumps the epoch, so a response that arrives
// after the user closed or switched the dialog is dropped.
package authflow
