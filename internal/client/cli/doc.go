// Package cli is the interactive terminal client.
//
// The client mirrors a small single-page app: a history of view paths, a
// route table marking some views protected, and a guard that sends
// unauthenticated users to /login and back again once they sign in.
// Commands typed at the prompt move between views and render them.
//
// App owns the session store and every service; nothing is held in
// package-level state. The REPL is started with App.Run, which blocks
// until the user exits or ctx is cancelled.
package cli
