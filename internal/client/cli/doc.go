// Package cli provides the interactive gophauth command-line client.
//
// The App drives one services.AuthService from a read-eval-print loop.
// Passwords are read from the terminal without echo and wiped after use;
// forms are checked with the validation package before they reach the
// session manager.
//
// Commands:
//   - register  create the local account (replaces any existing one)
//   - login     sign in with email and password
//   - bio       sign in with the biometric authenticator
//   - logout    end the session, keep the account
//   - status    show session, lockout and biometric state
//   - whoami    show the signed-in profile
//   - help      list commands
//   - exit      leave the program
//
// Two background goroutines run next to the loop: a lock watcher that
// periodically asks the manager to lift an expired lock, and a state
// watcher that reports lock transitions as they happen.
package cli
