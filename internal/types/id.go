// README: Identifier type shared by modules.
package types

type ID string
