package card

import _ "modernc.org/sqlite"

const driverName = "sqlite"
