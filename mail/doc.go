// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mail delivers verification mails carrying the voting link.
//
// SMTPSender talks to a relay; LogSender is used when no relay is configured.
package mail
