// Package chzzk contains the Chzzk (Naver live streaming) collaborators the bot consumes:
//
//   - Client: minimal REST helpers authenticated with NID session cookies, covering
//     channel live detail (title, viewer count, open date, chat channel id), per-user
//     profile cards (nickname, follow date), and the chat access token.
//   - Chat: a websocket chat session bound to one channel. It delivers message batches
//     to an OnMessage handler, signals connection loss via OnDisconnect, and exposes
//     Send for outbound chat lines. User identity resolution (UserInfo) is scoped to
//     the session's chat channel, mirroring how the platform keys profile cards.
//
// Credentials: every REST call and the websocket handshake carry the NID_AUT/NID_SES
// session cookies. The package performs no login or cookie refresh; expired cookies
// surface as request failures.
package chzzk
