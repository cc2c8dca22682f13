/*
Package auth is the account service. It contains the database interface for users (UserDB), the
User type and the glue which enforces the rules common to all UserDB implementations.

Registration

Registering inserts a user and logs it in with the credentials which have just been submitted, so
no separate login step is required. The caller stores the returned user in the session.

Credentials

A failed login returns ErrAuth, regardless of whether the user name is unknown or the password is
wrong.
*/
package auth
