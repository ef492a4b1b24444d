package scheduling

import _ "time/tzdata"
