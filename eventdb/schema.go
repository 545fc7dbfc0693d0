// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// events committed by pool and token operations
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	opSeq integer,
	eventIndex integer,
	time integer,
	contract blob(20),
	name text,
	subject0 blob(20),
	subject1 blob(20),
	args text
);

CREATE INDEX if not exists opSeqIndex on event(opSeq);
CREATE INDEX if not exists contractIndex on event(contract);
CREATE INDEX if not exists nameIndex on event(name);
CREATE INDEX if not exists subjectIndex0 on event(subject0);
CREATE INDEX if not exists subjectIndex1 on event(subject1);
`
