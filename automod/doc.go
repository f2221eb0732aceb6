// Moderation pipeline for Telegram group chats.
//
// This package (`github.com/mleandrojr/mslovelace-bot/automod`) normalizes raw bot API updates into events and runs each one through an ordered chain of policy actions: anti-spam gating of new members, member bookkeeping, blocked term enforcement, and greetings. Messages carrying a command then dispatch to registered command handlers, and callback queries to callback handlers. Moderation state (warnings, bans, federations, blocked terms) persists through the store package; the engine keeps no per-event state of its own.
//
// See `cmd/mslovelace` for the daemon built on this package.
package automod
